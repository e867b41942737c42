package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"eups-setup/internal/types"
)

// FlavorRank orders how well a declared flavor serves a request.
// Lower ranks win; position in the file only breaks ties within a rank.
type FlavorRank int

const (
	RankExact FlavorRank = iota
	RankAny
	RankNull
	RankNone
)

type FlavorPolicy struct {
	Flavor string
}

func NewFlavorPolicy(flavor string) FlavorPolicy {
	return FlavorPolicy{Flavor: strings.TrimSpace(flavor)}
}

// Rank classifies a single declared flavor against the requested one.
func (p FlavorPolicy) Rank(declared string) FlavorRank {
	declared = strings.TrimSpace(declared)
	switch {
	case declared == "":
		return RankNone
	case declared == p.Flavor:
		return RankExact
	case strings.EqualFold(declared, types.FlavorAny):
		return RankAny
	case strings.EqualFold(declared, types.FlavorNull):
		return RankNull
	default:
		return RankNone
	}
}

// BlockRank is the best rank among all flavors a block declares.
func (p FlavorPolicy) BlockRank(block types.FlavorBlock) FlavorRank {
	best := RankNone
	for _, flavor := range block.Flavors {
		if rank := p.Rank(flavor); rank < best {
			best = rank
		}
	}
	return best
}

// BestRank is the best rank reachable by any of the blocks.
func (p FlavorPolicy) BestRank(blocks []types.FlavorBlock) FlavorRank {
	best := RankNone
	for _, block := range blocks {
		if rank := p.BlockRank(block); rank < best {
			best = rank
		}
	}
	return best
}

// Select returns the index of the first block of the best rank.
func (p FlavorPolicy) Select(blocks []types.FlavorBlock) (int, error) {
	best := -1
	bestRank := RankNone
	for idx, block := range blocks {
		rank := p.BlockRank(block)
		if rank < bestRank {
			best = idx
			bestRank = rank
		}
	}
	if best < 0 {
		return -1, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no block matches flavor %s", p.Flavor))
	}
	return best, nil
}
