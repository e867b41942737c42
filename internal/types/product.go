package types

import "path/filepath"

const (
	DatabaseDirName = "ups_db"
	ChainFileName   = "current.chain"
	VersionFileExt  = ".version"
	DefaultUpsDir   = "ups"
	TableFileExt    = ".table"
	NoTableFile     = "none"
	LocalVersion    = "LOCAL:"
)

// Root is a verified product repository holding a ups_db directory.
type Root struct {
	Path string
}

func (r Root) Database() string {
	return filepath.Join(r.Path, DatabaseDirName)
}

func (r Root) ProductDatabase(product string) string {
	return filepath.Join(r.Database(), product)
}

type ChainPointer struct {
	Root    Root
	Product string
	Flavor  string
	Version string
}

type VersionRecord struct {
	Product    string
	Version    string
	Flavor     string
	ProductDir string
	UpsDir     string
	TableFile  string
}

// HasTable reports whether the record points at a real table file.
func (v VersionRecord) HasTable() bool {
	return v.TableFile != "" && v.TableFile != NoTableFile
}

// Location is a fully resolved product build.
type Location struct {
	Root       Root
	Product    string
	Version    string
	Flavor     string
	ProductDir string
	UpsDir     string
	TableFile  string
}

func (l Location) HasTable() bool {
	return l.TableFile != "" && l.TableFile != NoTableFile
}

// SetupMarker is the recorded value of SETUP_<PRODUCT>.
type SetupMarker struct {
	Product string
	Version string
	Flavor  string
	Root    string
}
