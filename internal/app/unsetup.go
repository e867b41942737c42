package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"eups-setup/internal/core"
)

func (s Service) Unsetup(ctx context.Context, req UnsetupRequest) (UnsetupResult, error) {
	product, err := requireProduct(req.Product)
	if err != nil {
		return UnsetupResult{Status: StatusFailed}, err
	}
	if err := validateFormat(req.Format); err != nil {
		return UnsetupResult{Status: StatusFailed}, err
	}
	env := s.environment()
	walk, walkErr := s.walker().Unsetup(ctx, env, core.UnsetupRequest{
		Product: product,
		Path:    req.Path,
	})
	output, err := s.render(ctx, env, req.Shell, req.Format)
	if err != nil {
		return UnsetupResult{Status: StatusFailed}, err
	}
	if walkErr != nil {
		return UnsetupResult{Status: StatusFailed, Location: walk.Location, Output: output}, walkErr
	}
	if walk.Failures > 0 {
		log.Ctx(ctx).Warn().
			Err(walk.Errors).
			Str("product", product).
			Int("failures", walk.Failures).
			Msg("required dependencies failed to unset up")
	}
	return UnsetupResult{Status: walk.Failures, Location: walk.Location, Output: output}, nil
}
