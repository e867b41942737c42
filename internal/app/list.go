package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"eups-setup/internal/core"
	"eups-setup/internal/shared"
	"eups-setup/internal/types"
)

// List reports every declared version of a product across the roots. It
// reads the environment but never changes it.
func (s Service) List(ctx context.Context, req ListRequest) (ListResult, error) {
	product, err := requireProduct(req.Product)
	if err != nil {
		return ListResult{}, err
	}
	env := s.environment()
	flavor := strings.TrimSpace(req.Flavor)
	if flavor == "" {
		flavor = strings.TrimSpace(env.Value(shared.EnvFlavor))
	}
	if flavor == "" {
		return ListResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("no flavor given and %s is not set", shared.EnvFlavor))
	}
	path := req.Path
	if strings.TrimSpace(path) == "" {
		path = env.Value(shared.EnvPath)
	}
	roots, err := core.ResolveRoots(ctx, s.Database, path)
	if err != nil {
		return ListResult{}, err
	}

	active, hasActive := s.activeMarker(ctx, env, product)
	chains := core.NewChainResolver(s.Database)
	result := ListResult{Product: product, Flavor: flavor}
	for _, root := range roots {
		versions, err := s.Database.ListVersions(root, product)
		if err != nil {
			return ListResult{}, err
		}
		current := ""
		if pointer, err := chains.ResolveCurrent(ctx, root, product, flavor); err == nil {
			current = pointer.Version
		}
		for _, version := range core.SortVersions(versions) {
			result.Entries = append(result.Entries, ListEntry{
				Root:    root.Path,
				Version: version,
				Current: version == current,
				Setup:   hasActive && active.Version == version && (active.Root == "" || active.Root == root.Path),
			})
		}
	}
	if len(result.Entries) == 0 {
		return ListResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no versions of %s declared", product))
	}
	return result, nil
}

func (s Service) activeMarker(ctx context.Context, env *core.Environment, product string) (types.SetupMarker, bool) {
	value, ok := env.Get(shared.SetupVar(product))
	if !ok {
		return types.SetupMarker{}, false
	}
	marker, err := core.ParseSetupMarker(value)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("product", product).Msg("ignoring unreadable setup marker")
		return types.SetupMarker{}, false
	}
	return marker, true
}
