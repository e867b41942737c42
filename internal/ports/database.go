package ports

import "eups-setup/internal/types"

// DatabasePort reads the ups_db metadata tree of a product root.
type DatabasePort interface {
	// HasDatabase reports whether path contains a ups_db directory.
	HasDatabase(path string) bool
	ChainExists(root types.Root, product string) bool
	ReadChain(root types.Root, product string) (string, error)
	VersionExists(root types.Root, product string, version string) bool
	ReadVersion(root types.Root, product string, version string) (string, error)
	// ListVersions returns the versions declared for product under root,
	// in directory order. A product without a database entry yields none.
	ListVersions(root types.Root, product string) ([]string, error)
}
