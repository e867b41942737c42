package core

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"eups-setup/internal/ports"
	"eups-setup/internal/types"
)

// Locator finds the concrete installed build for a product request.
type Locator struct {
	Database ports.DatabasePort
	Chains   ChainResolver
	Versions VersionReader
}

func NewLocator(db ports.DatabasePort, tables ports.TablePort) Locator {
	return Locator{
		Database: db,
		Chains:   NewChainResolver(db),
		Versions: NewVersionReader(db, tables),
	}
}

// Locate resolves product against roots in order. Without a version the
// first root carrying a current.chain is authoritative: a chain that does
// not match the flavor fails the lookup instead of falling through.
func (l Locator) Locate(ctx context.Context, env *Environment, roots []types.Root, product string, version string, flavor string) (types.Location, error) {
	root, version, err := l.selectRoot(ctx, roots, product, version, flavor)
	if err != nil {
		return types.Location{}, err
	}
	record, err := l.Versions.ResolveVersion(ctx, env, root, product, version, flavor)
	if err != nil {
		return types.Location{}, err
	}
	location := types.Location{
		Root:       root,
		Product:    product,
		Version:    version,
		Flavor:     flavor,
		ProductDir: absoluteUnder(root.Path, record.ProductDir),
		UpsDir:     absoluteUnder(root.Path, record.UpsDir),
		TableFile:  record.TableFile,
	}
	if record.HasTable() {
		location.TableFile = absoluteUnder(root.Path, record.TableFile)
	}
	log.Ctx(ctx).Debug().
		Str("product", product).
		Str("version", version).
		Str("root", root.Path).
		Str("table", location.TableFile).
		Msg("located product")
	return location, nil
}

func (l Locator) selectRoot(ctx context.Context, roots []types.Root, product string, version string, flavor string) (types.Root, string, error) {
	if version == "" {
		for _, root := range roots {
			if !l.Database.ChainExists(root, product) {
				continue
			}
			pointer, err := l.Chains.ResolveCurrent(ctx, root, product, flavor)
			if err != nil {
				return types.Root{}, "", err
			}
			return root, pointer.Version, nil
		}
		return types.Root{}, "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no current version of %s for flavor %s", product, flavor))
	}
	for _, root := range roots {
		if l.Database.VersionExists(root, product, version) {
			return root, version, nil
		}
	}
	return types.Root{}, "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("version %s of %s not found", version, product))
}

func absoluteUnder(base string, path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
