package ports

import (
	"context"

	"eups-setup/internal/types"
)

// ScriptPort renders a mutation log as text a shell can source.
// Mutations the shell cannot express are skipped with a warning.
type ScriptPort interface {
	Render(ctx context.Context, shell string, mutations []types.Mutation) (string, error)
}

// MutationLogPort renders a mutation log as a structured document.
type MutationLogPort interface {
	Render(mutations []types.Mutation) (string, error)
}
