package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"eups-setup/internal/policies"
	"eups-setup/internal/ports"
	"eups-setup/internal/types"
)

type ChainResolver struct {
	Database ports.DatabasePort
}

func NewChainResolver(db ports.DatabasePort) ChainResolver {
	return ChainResolver{Database: db}
}

// ResolveCurrent returns the version the root's current.chain registers
// for flavor.
func (r ChainResolver) ResolveCurrent(ctx context.Context, root types.Root, product string, flavor string) (types.ChainPointer, error) {
	if !r.Database.ChainExists(root, product) {
		log.Ctx(ctx).Debug().Str("root", root.Path).Str("product", product).Msg("no current chain")
		return types.ChainPointer{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no current version of %s in %s", product, root.Path))
	}
	raw, err := r.Database.ReadChain(root, product)
	if err != nil {
		return types.ChainPointer{}, err
	}
	version, err := CurrentVersion(raw, flavor)
	if err != nil {
		log.Ctx(ctx).Debug().Str("root", root.Path).Str("product", product).Str("flavor", flavor).Msg("chain has no matching flavor")
		return types.ChainPointer{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no current version of %s for flavor %s in %s", product, flavor, root.Path)).
			WithCause(err)
	}
	return types.ChainPointer{
		Root:    root,
		Product: product,
		Flavor:  flavor,
		Version: version,
	}, nil
}

// CurrentVersion extracts VERSION from the flavor-selected block of a chain
// file's text.
func CurrentVersion(raw string, flavor string) (string, error) {
	file := ParseDatabaseFile(raw)
	idx, err := policies.NewFlavorPolicy(flavor).Select(file.Blocks)
	if err != nil {
		return "", err
	}
	version, ok := file.Blocks[idx].Field("version")
	if !ok || strings.TrimSpace(version) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("chain block has no VERSION")
	}
	return strings.TrimSpace(version), nil
}
