package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// declareProduct writes a version file for product/version under root and
// its table; current also writes the chain.
func declareProduct(t *testing.T, root string, product string, version string, current bool, table string) {
	t.Helper()
	db := filepath.Join(root, "ups_db", product)
	writeFile(t, filepath.Join(db, version+".version"), fmt.Sprintf(`FILE = version
PRODUCT = %s
VERSION = %s
FLAVOR = Linux
PROD_DIR = %s/%s
UPS_DIR = ups
TABLE_FILE = %s.table
`, product, version, product, version, product))
	if current {
		writeFile(t, filepath.Join(db, "current.chain"), fmt.Sprintf(`FILE = chain
PRODUCT = %s
CHAIN = current
FLAVOR = Linux
VERSION = %s
`, product, version))
	}
	writeFile(t, filepath.Join(root, product, version, "ups", product+".table"), table)
}

func testService(environ ...string) Service {
	service := NewService()
	service.Environ = func() []string { return environ }
	return service
}
