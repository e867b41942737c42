package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"eups-setup/internal/types"
)

// FormatSetupMarker renders the SETUP_<PRODUCT> value:
// "<product> <version> -f <flavor> -Z <root>".
func FormatSetupMarker(marker types.SetupMarker) string {
	parts := []string{marker.Product, marker.Version}
	if marker.Flavor != "" {
		parts = append(parts, "-f", marker.Flavor)
	}
	if marker.Root != "" {
		parts = append(parts, "-Z", marker.Root)
	}
	return strings.Join(parts, " ")
}

// ParseSetupMarker reads back a value written by FormatSetupMarker.
func ParseSetupMarker(value string) (types.SetupMarker, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return types.SetupMarker{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty setup marker")
	}
	marker := types.SetupMarker{Product: fields[0]}
	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "-f", "-Z":
			if i+1 >= len(fields) {
				return types.SetupMarker{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("setup marker %q: %s needs a value", value, fields[i]))
			}
			if fields[i] == "-f" {
				marker.Flavor = fields[i+1]
			} else {
				marker.Root = fields[i+1]
			}
			i++
		default:
			if marker.Version == "" && !strings.HasPrefix(fields[i], "-") {
				marker.Version = fields[i]
			}
		}
	}
	return marker, nil
}

type dependencyRequest struct {
	Product string
	Version string
	Flavor  string
}

// parseDependency reads setupRequired/setupOptional arguments: a product,
// an optional version and an optional "-f flavor". Arguments may be given
// as one string or as separate comma arguments.
func parseDependency(args []string, parentFlavor string) (dependencyRequest, error) {
	fields := strings.Fields(strings.Join(args, " "))
	if len(fields) == 0 {
		return dependencyRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency without a product name")
	}
	req := dependencyRequest{Product: fields[0], Flavor: parentFlavor}
	for i := 1; i < len(fields); i++ {
		switch {
		case fields[i] == "-f" && i+1 < len(fields):
			req.Flavor = fields[i+1]
			i++
		case strings.HasPrefix(fields[i], "-"):
		case req.Version == "":
			req.Version = fields[i]
		}
	}
	return req, nil
}
