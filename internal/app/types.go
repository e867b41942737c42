package app

import "eups-setup/internal/types"

// StatusFailed is the status of a setup or unsetup that did not complete.
const StatusFailed = -1

const (
	FormatScript = "script"
	FormatYAML   = "yaml"
)

type SetupRequest struct {
	Product    string
	Version    string
	Flavor     string
	Path       string
	ProductDir string
	Just       bool
	Shell      string
	Format     string
}

// SetupResult carries the walk status: StatusFailed on a hard failure,
// otherwise the number of required dependencies that failed. Output holds
// the rendered mutations, including those applied before a failure.
type SetupResult struct {
	Status   int
	Location types.Location
	Output   string
}

type UnsetupRequest struct {
	Product string
	Path    string
	Shell   string
	Format  string
}

type UnsetupResult struct {
	Status   int
	Location types.Location
	Output   string
}

type ListRequest struct {
	Product string
	Flavor  string
	Path    string
}

type ListEntry struct {
	Root    string
	Version string
	Current bool
	Setup   bool
}

type ListResult struct {
	Product string
	Flavor  string
	Entries []ListEntry
}
