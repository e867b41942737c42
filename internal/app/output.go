package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"eups-setup/internal/core"
	"eups-setup/internal/shared"
)

func (s Service) render(ctx context.Context, env *core.Environment, shell string, format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatScript:
		if strings.TrimSpace(shell) == "" {
			shell = env.Value(shared.EnvShell)
		}
		return s.Script.Render(ctx, shell, env.Mutations())
	case FormatYAML:
		return s.MutationLog.Render(env.Mutations())
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown output format %q", format))
	}
}

func validateFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatScript, FormatYAML:
		return nil
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown output format %q", format))
	}
}

func requireProduct(product string) (string, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("product is required")
	}
	return product, nil
}
