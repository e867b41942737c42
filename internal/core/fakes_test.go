package core

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"eups-setup/internal/types"
)

type testDatabase struct {
	roots    map[string]bool
	chains   map[string]string
	versions map[string]map[string]string
}

func newTestDatabase(roots ...string) *testDatabase {
	db := &testDatabase{
		roots:    map[string]bool{},
		chains:   map[string]string{},
		versions: map[string]map[string]string{},
	}
	for _, root := range roots {
		db.roots[root] = true
	}
	return db
}

func testKey(root types.Root, product string) string {
	return root.Path + "|" + product
}

func (d *testDatabase) declare(root string, product string, version string, raw string) {
	key := testKey(types.Root{Path: root}, product)
	if d.versions[key] == nil {
		d.versions[key] = map[string]string{}
	}
	d.versions[key][version] = raw
}

func (d *testDatabase) current(root string, product string, raw string) {
	d.chains[testKey(types.Root{Path: root}, product)] = raw
}

func (d *testDatabase) HasDatabase(path string) bool {
	return d.roots[path]
}

func (d *testDatabase) ChainExists(root types.Root, product string) bool {
	_, ok := d.chains[testKey(root, product)]
	return ok
}

func (d *testDatabase) ReadChain(root types.Root, product string) (string, error) {
	raw, ok := d.chains[testKey(root, product)]
	if !ok {
		return "", errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("no chain")
	}
	return raw, nil
}

func (d *testDatabase) VersionExists(root types.Root, product string, version string) bool {
	_, ok := d.versions[testKey(root, product)][version]
	return ok
}

func (d *testDatabase) ReadVersion(root types.Root, product string, version string) (string, error) {
	raw, ok := d.versions[testKey(root, product)][version]
	if !ok {
		return "", errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("no version")
	}
	return raw, nil
}

func (d *testDatabase) ListVersions(root types.Root, product string) ([]string, error) {
	var out []string
	for version := range d.versions[testKey(root, product)] {
		out = append(out, version)
	}
	sort.Strings(out)
	return out, nil
}

type testTables map[string]string

func (t testTables) TableExists(path string) bool {
	_, ok := t[path]
	return ok
}

func (t testTables) ReadTable(path string) (string, error) {
	raw, ok := t[path]
	if !ok {
		return "", errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("no table")
	}
	return raw, nil
}

func versionFile(product string, version string, flavor string, prodDir string) string {
	return fmt.Sprintf(`FILE = version
PRODUCT = %s
VERSION = %s
#***************************************
FLAVOR = %s
QUALIFIERS = ""
PROD_DIR = %s
UPS_DIR = ups
TABLE_FILE = %s.table
`, product, version, flavor, prodDir, product)
}

func chainFile(product string, version string, flavor string) string {
	return fmt.Sprintf(`FILE = chain
PRODUCT = %s
CHAIN = current
#***************************************
FLAVOR = %s
VERSION = %s
`, product, flavor, version)
}

// install declares product/version as current under root with its table
// at <root>/<product>/<version>/ups/<product>.table.
func install(db *testDatabase, tables testTables, root string, product string, version string, flavor string, table string) {
	prodDir := product + "/" + version
	db.declare(root, product, version, versionFile(product, version, flavor, prodDir))
	db.current(root, product, chainFile(product, version, flavor))
	tables[root+"/"+prodDir+"/ups/"+product+".table"] = table
}
