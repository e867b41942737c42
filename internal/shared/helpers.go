// Package shared provides naming helpers used across the setup core,
// application service and CLI.
package shared

import "strings"

const (
	EnvPath   = "EUPS_PATH"
	EnvFlavor = "EUPS_FLAVOR"
	EnvDebug  = "EUPS_DEBUG"
	EnvShell  = "SHELL"
)

// ProductDirVar is the variable holding a set-up product's directory,
// e.g. FOO_DIR for product foo.
func ProductDirVar(product string) string {
	return envName(product) + "_DIR"
}

// SetupVar is the marker variable recording how a product was set up,
// e.g. SETUP_FOO for product foo.
func SetupVar(product string) string {
	return "SETUP_" + envName(product)
}

func envName(product string) string {
	return strings.ToUpper(strings.TrimSpace(product))
}
