package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"eups-setup/internal/core"
)

func (s Service) Setup(ctx context.Context, req SetupRequest) (SetupResult, error) {
	product, err := requireProduct(req.Product)
	if err != nil {
		return SetupResult{Status: StatusFailed}, err
	}
	if err := validateFormat(req.Format); err != nil {
		return SetupResult{Status: StatusFailed}, err
	}
	env := s.environment()
	walk, walkErr := s.walker().Setup(ctx, env, core.SetupRequest{
		Product:    product,
		Version:    req.Version,
		Flavor:     req.Flavor,
		Path:       req.Path,
		ProductDir: req.ProductDir,
		Just:       req.Just,
	})
	output, err := s.render(ctx, env, req.Shell, req.Format)
	if err != nil {
		return SetupResult{Status: StatusFailed}, err
	}
	if walkErr != nil {
		return SetupResult{Status: StatusFailed, Location: walk.Location, Output: output}, walkErr
	}
	if walk.Failures > 0 {
		log.Ctx(ctx).Warn().
			Err(walk.Errors).
			Str("product", product).
			Int("failures", walk.Failures).
			Msg("required dependencies failed")
	}
	return SetupResult{Status: walk.Failures, Location: walk.Location, Output: output}, nil
}
