package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"eups-setup/internal/ports"
	"eups-setup/internal/types"
)

// ResolveRoots splits a colon-separated search path into the ordered list
// of roots that hold a ups_db directory. Order is preserved because the
// first root satisfying a request wins.
func ResolveRoots(ctx context.Context, db ports.DatabasePort, path string) ([]types.Root, error) {
	var roots []types.Root
	for _, segment := range strings.Split(path, ":") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if !db.HasDatabase(segment) {
			log.Ctx(ctx).Warn().Str("root", segment).Msg("ignoring root without ups_db")
			continue
		}
		roots = append(roots, types.Root{Path: segment})
	}
	if len(roots) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("no valid product roots in %q", path))
	}
	return roots, nil
}
