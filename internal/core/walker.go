package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"eups-setup/internal/ports"
	"eups-setup/internal/shared"
	"eups-setup/internal/types"
)

// Walker sets up and unsets up products depth-first, recursing into the
// setupRequired/setupOptional lines of each table.
type Walker struct {
	Database ports.DatabasePort
	Tables   ports.TablePort
	Locator  Locator
	Parser   TableParser
	Engine   MutationEngine
}

func NewWalker(db ports.DatabasePort, tables ports.TablePort) Walker {
	return Walker{
		Database: db,
		Tables:   tables,
		Locator:  NewLocator(db, tables),
		Parser:   NewTableParser(),
		Engine:   NewMutationEngine(),
	}
}

type SetupRequest struct {
	Product    string
	Version    string
	Flavor     string
	Path       string
	ProductDir string
	Just       bool
}

type UnsetupRequest struct {
	Product string
	Path    string
}

// WalkResult describes a completed top-level walk. Failures counts the
// required dependencies that failed anywhere below the product.
type WalkResult struct {
	Location types.Location
	Failures int
	Errors   error
}

type walkState struct {
	roots  []types.Root
	just   bool
	active map[string]struct{}
}

func newWalkResult(location types.Location, errs *multierror.Error) WalkResult {
	return WalkResult{
		Location: location,
		Failures: failureCount(errs),
		Errors:   errs.ErrorOrNil(),
	}
}

// failureCount is errs.Len() made safe for the nil error a clean walk
// returns.
func failureCount(errs *multierror.Error) int {
	if errs == nil {
		return 0
	}
	return len(errs.Errors)
}

func (w Walker) Setup(ctx context.Context, env *Environment, req SetupRequest) (WalkResult, error) {
	assert.NotEmpty(ctx, req.Product, "setup product must be set")
	flavor := strings.TrimSpace(req.Flavor)
	if flavor == "" {
		flavor = strings.TrimSpace(env.Value(shared.EnvFlavor))
	}
	if flavor == "" {
		return WalkResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("no flavor given and %s is not set", shared.EnvFlavor))
	}
	roots, err := w.roots(ctx, env, req.Path)
	if err != nil {
		if req.ProductDir == "" {
			return WalkResult{}, err
		}
		log.Ctx(ctx).Warn().Err(err).Msg("continuing with explicit product directory only")
	}
	state := &walkState{roots: roots, just: req.Just, active: map[string]struct{}{}}
	dep := dependencyRequest{Product: req.Product, Version: req.Version, Flavor: flavor}
	location, errs, err := w.setup(ctx, env, state, dep, req.ProductDir, 0)
	if err != nil {
		return WalkResult{Location: location}, err
	}
	return newWalkResult(location, errs), nil
}

func (w Walker) Unsetup(ctx context.Context, env *Environment, req UnsetupRequest) (WalkResult, error) {
	assert.NotEmpty(ctx, req.Product, "unsetup product must be set")
	roots, err := w.roots(ctx, env, req.Path)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("continuing with recorded roots")
	}
	state := &walkState{roots: roots, active: map[string]struct{}{}}
	guard := types.NewUnsetGuard()
	guard.Add(req.Product)
	location, errs, err := w.unsetup(ctx, env, state, guard, req.Product, 0)
	if err != nil {
		return WalkResult{Location: location}, err
	}
	return newWalkResult(location, errs), nil
}

func (w Walker) roots(ctx context.Context, env *Environment, path string) ([]types.Root, error) {
	if strings.TrimSpace(path) == "" {
		path = env.Value(shared.EnvPath)
	}
	return ResolveRoots(ctx, w.Database, path)
}

func (w Walker) setup(ctx context.Context, env *Environment, state *walkState, req dependencyRequest, productDir string, depth int) (types.Location, *multierror.Error, error) {
	logger := log.Ctx(ctx).With().Str("product", req.Product).Int("depth", depth).Logger()
	if _, ok := state.active[req.Product]; ok {
		return types.Location{}, nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("dependency cycle through %s", req.Product))
	}
	state.active[req.Product] = struct{}{}
	defer delete(state.active, req.Product)

	if env.Has(shared.SetupVar(req.Product)) {
		logger.Info().Msg("unsetting up active instance")
		guard := types.NewUnsetGuard()
		guard.Add(req.Product)
		if _, _, err := w.unsetup(ctx, env, state, guard, req.Product, depth); err != nil {
			logger.Warn().Err(err).Msg("could not unset up active instance")
		}
	}

	var location types.Location
	if productDir != "" {
		location = w.overrideLocation(ctx, env, state.roots, req, productDir)
	} else {
		var err error
		location, err = w.Locator.Locate(ctx, env, state.roots, req.Product, req.Version, req.Flavor)
		if err != nil {
			return types.Location{}, nil, err
		}
	}
	commands, err := w.commands(ctx, location)
	if err != nil {
		return location, nil, err
	}
	logger.Info().Str("version", location.Version).Str("flavor", location.Flavor).Msg("setting up")

	var errs *multierror.Error
	for _, cmd := range w.withMarkers(location, commands) {
		cmd.Args = env.InterpolateAll(cmd.Args)
		if !cmd.IsDependency() {
			w.applyPrimitive(ctx, env, cmd, types.DirectionForward)
			continue
		}
		if state.just && depth == 0 {
			logger.Debug().Int("line", cmd.Line).Msg("skipping dependency")
			continue
		}
		dep, err := parseDependency(cmd.Args, location.Flavor)
		if err == nil {
			var nested *multierror.Error
			_, nested, err = w.setup(ctx, env, state, dep, "", depth+1)
			if err == nil {
				if cmd.Required() && failureCount(nested) > 0 {
					errs = multierror.Append(errs, nested)
				}
				continue
			}
		}
		w.dependencyFailed(ctx, cmd, err, depth)
		if cmd.Required() {
			errs = multierror.Append(errs, err)
		}
	}
	return location, errs, nil
}

func (w Walker) unsetup(ctx context.Context, env *Environment, state *walkState, guard types.UnsetGuard, product string, depth int) (types.Location, *multierror.Error, error) {
	logger := log.Ctx(ctx).With().Str("product", product).Int("depth", depth).Logger()
	value, ok := env.Get(shared.SetupVar(product))
	dir, dirOK := env.Get(shared.ProductDirVar(product))
	if !ok || !dirOK {
		return types.Location{}, nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%s is not set up", product))
	}
	marker, err := ParseSetupMarker(value)
	if err != nil {
		return types.Location{}, nil, err
	}
	location := w.recordedLocation(ctx, env, state, product, marker, dir)
	commands, err := w.commands(ctx, location)
	if err != nil {
		return location, nil, err
	}
	logger.Info().Str("version", location.Version).Str("flavor", location.Flavor).Msg("unsetting up")

	// Variables are torn down as the walk proceeds, so every line is
	// interpolated before the first mutation.
	commands = w.withMarkers(location, commands)
	for i := range commands {
		commands[i].Args = env.InterpolateAll(commands[i].Args)
	}

	var errs *multierror.Error
	for _, cmd := range commands {
		if !cmd.IsDependency() {
			w.applyPrimitive(ctx, env, cmd, types.DirectionReverse)
			continue
		}
		dep, err := parseDependency(cmd.Args, location.Flavor)
		if err == nil {
			if guard.Has(dep.Product) {
				logger.Debug().Str("dependency", dep.Product).Msg("already unset up")
				continue
			}
			guard.Add(dep.Product)
			var nested *multierror.Error
			_, nested, err = w.unsetup(ctx, env, state, guard, dep.Product, depth+1)
			if err == nil {
				if cmd.Required() && failureCount(nested) > 0 {
					errs = multierror.Append(errs, nested)
				}
				continue
			}
		}
		w.dependencyFailed(ctx, cmd, err, depth)
		if cmd.Required() {
			errs = multierror.Append(errs, err)
		}
	}
	return location, errs, nil
}

// commands reads and parses the location's table. A "none" table has no
// commands; any other missing table is a resolution miss.
func (w Walker) commands(ctx context.Context, location types.Location) ([]types.TableCommand, error) {
	if !location.HasTable() {
		log.Ctx(ctx).Debug().Str("product", location.Product).Msg("product has no table file")
		return nil, nil
	}
	if !w.Tables.TableExists(location.TableFile) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("table file %s for %s not found", location.TableFile, location.Product))
	}
	raw, err := w.Tables.ReadTable(location.TableFile)
	if err != nil {
		return nil, err
	}
	database := ""
	if location.Root.Path != "" {
		database = location.Root.Database()
	}
	return w.Parser.Parse(ctx, raw, types.TableContext{
		Product:    location.Product,
		Version:    location.Version,
		Flavor:     location.Flavor,
		ProductDir: location.ProductDir,
		UpsDir:     location.UpsDir,
		Database:   database,
	})
}

// withMarkers puts the product's own proddir and setupEnv ahead of its
// table commands and fills in argument-less occurrences.
func (w Walker) withMarkers(location types.Location, commands []types.TableCommand) []types.TableCommand {
	out := make([]types.TableCommand, 0, len(commands)+2)
	out = append(out,
		types.TableCommand{Kind: types.CommandProdDir},
		types.TableCommand{Kind: types.CommandSetupEnv},
	)
	out = append(out, commands...)
	for i, cmd := range out {
		if len(cmd.Args) >= 2 {
			continue
		}
		switch cmd.Kind {
		case types.CommandProdDir:
			value := location.ProductDir
			if len(cmd.Args) == 1 && cmd.Args[0] != "" {
				value = cmd.Args[0]
			}
			out[i].Args = []string{shared.ProductDirVar(location.Product), value}
		case types.CommandSetupEnv:
			out[i].Args = []string{shared.SetupVar(location.Product), FormatSetupMarker(types.SetupMarker{
				Product: location.Product,
				Version: location.Version,
				Flavor:  location.Flavor,
				Root:    location.Root.Path,
			})}
		}
	}
	return out
}

func (w Walker) applyPrimitive(ctx context.Context, env *Environment, cmd types.TableCommand, direction types.Direction) {
	if err := w.Engine.Apply(env, cmd, direction); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("line", cmd.Line).Str("command", string(cmd.Kind)).Msg("skipping table command")
	}
}

func (w Walker) dependencyFailed(ctx context.Context, cmd types.TableCommand, err error, depth int) {
	event := log.Ctx(ctx).Debug()
	if cmd.Required() {
		event = log.Ctx(ctx).Error()
	}
	event.Err(err).
		Str("dependency", strings.Join(cmd.Args, " ")).
		Int("depth", depth).
		Bool("required", cmd.Required()).
		Msg("dependency failed")
}

// overrideLocation composes the paths for an explicit product directory.
// A best-effort locate only supplies the root and version labels.
func (w Walker) overrideLocation(ctx context.Context, env *Environment, roots []types.Root, req dependencyRequest, dir string) types.Location {
	location := localLocation(req.Product, req.Flavor, dir)
	if len(roots) > 0 {
		location.Root = roots[0]
	}
	best, err := w.Locator.Locate(ctx, env, roots, req.Product, req.Version, req.Flavor)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("product", req.Product).Msg("no declared version for product directory")
		return location
	}
	location.Root = best.Root
	location.Version = best.Version
	return location
}

// recordedLocation finds the table an active product was set up with,
// using the version, flavor and root recorded in its setup marker.
func (w Walker) recordedLocation(ctx context.Context, env *Environment, state *walkState, product string, marker types.SetupMarker, dir string) types.Location {
	flavor := marker.Flavor
	if flavor == "" {
		flavor = env.Value(shared.EnvFlavor)
	}
	if local, ok := strings.CutPrefix(marker.Version, types.LocalVersion); ok {
		return localLocation(product, flavor, local)
	}
	roots := state.roots
	if marker.Root != "" {
		roots = []types.Root{{Path: marker.Root}}
	}
	location, err := w.Locator.Locate(ctx, env, roots, product, marker.Version, flavor)
	if err == nil && filepath.Clean(location.ProductDir) == filepath.Clean(dir) {
		return location
	}
	log.Ctx(ctx).Debug().Str("product", product).Str("dir", dir).Msg("using recorded product directory")
	location = localLocation(product, flavor, dir)
	location.Version = marker.Version
	location.Root = types.Root{Path: marker.Root}
	return location
}

func localLocation(product string, flavor string, dir string) types.Location {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	upsDir := filepath.Join(dir, types.DefaultUpsDir)
	return types.Location{
		Product:    product,
		Version:    types.LocalVersion + dir,
		Flavor:     flavor,
		ProductDir: dir,
		UpsDir:     upsDir,
		TableFile:  filepath.Join(upsDir, product+types.TableFileExt),
	}
}
