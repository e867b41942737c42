package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eups-setup/internal/types"
)

func TestResolveRootsKeepsOrderAndDropsInvalid(t *testing.T) {
	db := newTestDatabase("/opt/r1", "/opt/r2")

	roots, err := ResolveRoots(t.Context(), db, "/missing:/opt/r2::/opt/r1")
	require.NoError(t, err)
	want := []types.Root{{Path: "/opt/r2"}, {Path: "/opt/r1"}}
	if diff := cmp.Diff(want, roots); diff != "" {
		t.Fatalf("unexpected roots (-want +got):\n%s", diff)
	}
}

func TestResolveRootsWithoutValidRoot(t *testing.T) {
	db := newTestDatabase()

	_, err := ResolveRoots(t.Context(), db, "/missing:")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestCurrentVersionFlavorFallback(t *testing.T) {
	tests := []struct {
		name   string
		flavor string
		want   string
	}{
		{name: "exact", flavor: "Linux", want: "2.0"},
		{name: "null fallback", flavor: "SunOS", want: "1.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CurrentVersion(chainWithTrailingBlock, tt.flavor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentVersionPrefersAnyOverNull(t *testing.T) {
	raw := "FLAVOR = NULL\nVERSION = 1.0\nFLAVOR = any\nVERSION = 1.1\nFLAVOR = Darwin\nVERSION = 1.2\n"
	got, err := CurrentVersion(raw, "Linux")
	require.NoError(t, err)
	assert.Equal(t, "1.1", got)
}

func TestChainResolverMisses(t *testing.T) {
	db := newTestDatabase("/opt/r1")
	db.current("/opt/r1", "foo", chainFile("foo", "2.0", "Darwin"))
	resolver := NewChainResolver(db)
	root := types.Root{Path: "/opt/r1"}

	_, err := resolver.ResolveCurrent(t.Context(), root, "bar", "Linux")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = resolver.ResolveCurrent(t.Context(), root, "foo", "Linux")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	pointer, err := resolver.ResolveCurrent(t.Context(), root, "foo", "Darwin")
	require.NoError(t, err)
	assert.Equal(t, "2.0", pointer.Version)
}

func TestVersionReaderResolvesPaths(t *testing.T) {
	db := newTestDatabase("/opt/r1")
	db.declare("/opt/r1", "foo", "2.0", versionFile("foo", "2.0", "Linux", "foo/2.0"))
	db.declare("/opt/r1", "bar", "1.0", `FLAVOR = ANY
PROD_DIR = ${SRC}/bar
UPS_DIR = ${PRODUCTS}/bar/ups
TABLE_FILE = none
`)
	tables := testTables{"/opt/r1/foo/2.0/ups/foo.table": ""}
	reader := NewVersionReader(db, tables)
	env := NewEnvironment([]string{"SRC=/src"})
	root := types.Root{Path: "/opt/r1"}

	record, err := reader.ResolveVersion(t.Context(), env, root, "foo", "2.0", "Linux")
	require.NoError(t, err)
	want := types.VersionRecord{
		Product:    "foo",
		Version:    "2.0",
		Flavor:     "Linux",
		ProductDir: "/opt/r1/foo/2.0",
		UpsDir:     "/opt/r1/foo/2.0/ups",
		TableFile:  "/opt/r1/foo/2.0/ups/foo.table",
	}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Fatalf("unexpected record (-want +got):\n%s", diff)
	}

	record, err = reader.ResolveVersion(t.Context(), env, root, "bar", "1.0", "Linux")
	require.NoError(t, err)
	assert.Equal(t, "/src/bar", record.ProductDir)
	assert.Equal(t, "/opt/r1/ups_db/bar/ups", record.UpsDir)
	assert.False(t, record.HasTable())
}

func TestVersionReaderErrors(t *testing.T) {
	db := newTestDatabase("/opt/r1")
	db.declare("/opt/r1", "foo", "2.0", versionFile("foo", "2.0", "Darwin", "foo/2.0"))
	db.declare("/opt/r1", "bar", "1.0", "FLAVOR = Linux\nUPS_DIR = ups\n")
	reader := NewVersionReader(db, testTables{})
	env := NewEnvironment(nil)
	root := types.Root{Path: "/opt/r1"}

	tests := []struct {
		name    string
		product string
		version string
	}{
		{name: "missing version", product: "foo", version: "9.9"},
		{name: "flavor miss", product: "foo", version: "2.0"},
		{name: "no prod dir", product: "bar", version: "1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.ResolveVersion(t.Context(), env, root, tt.product, tt.version, "Linux")
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
		})
	}
}

func TestLocatorUsesCurrentChain(t *testing.T) {
	db := newTestDatabase("/opt/r1")
	tables := testTables{}
	install(db, tables, "/opt/r1", "foo", "2.0", "Linux", "")
	locator := NewLocator(db, tables)
	roots := []types.Root{{Path: "/opt/r1"}}

	location, err := locator.Locate(t.Context(), NewEnvironment(nil), roots, "foo", "", "Linux")
	require.NoError(t, err)
	want := types.Location{
		Root:       types.Root{Path: "/opt/r1"},
		Product:    "foo",
		Version:    "2.0",
		Flavor:     "Linux",
		ProductDir: "/opt/r1/foo/2.0",
		UpsDir:     "/opt/r1/foo/2.0/ups",
		TableFile:  "/opt/r1/foo/2.0/ups/foo.table",
	}
	if diff := cmp.Diff(want, location); diff != "" {
		t.Fatalf("unexpected location (-want +got):\n%s", diff)
	}
}

func TestLocatorFirstChainIsAuthoritative(t *testing.T) {
	db := newTestDatabase("/opt/r1", "/opt/r2")
	tables := testTables{}
	install(db, tables, "/opt/r1", "foo", "1.0", "Darwin", "")
	install(db, tables, "/opt/r2", "foo", "2.0", "Linux", "")
	locator := NewLocator(db, tables)
	roots := []types.Root{{Path: "/opt/r1"}, {Path: "/opt/r2"}}

	_, err := locator.Locate(t.Context(), NewEnvironment(nil), roots, "foo", "", "Linux")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestLocatorExplicitVersionSearchesRoots(t *testing.T) {
	db := newTestDatabase("/opt/r1", "/opt/r2")
	tables := testTables{}
	install(db, tables, "/opt/r1", "foo", "1.0", "Linux", "")
	install(db, tables, "/opt/r2", "foo", "2.0", "Linux", "")
	locator := NewLocator(db, tables)
	roots := []types.Root{{Path: "/opt/r1"}, {Path: "/opt/r2"}}

	location, err := locator.Locate(t.Context(), NewEnvironment(nil), roots, "foo", "2.0", "Linux")
	require.NoError(t, err)
	assert.Equal(t, "/opt/r2", location.Root.Path)
	assert.Equal(t, "/opt/r2/foo/2.0", location.ProductDir)

	_, err = locator.Locate(t.Context(), NewEnvironment(nil), roots, "foo", "3.0", "Linux")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
