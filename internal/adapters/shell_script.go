package adapters

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"mvdan.cc/sh/v3/syntax"

	"eups-setup/internal/ports"
	"eups-setup/internal/types"
)

const (
	ShellSh  = "sh"
	ShellCsh = "csh"
)

// ShellFamily maps a shell name or path such as /bin/tcsh to the syntax
// family used for rendering. Unknown shells render as sh.
func ShellFamily(shell string) string {
	switch filepath.Base(strings.TrimSpace(shell)) {
	case "csh", "tcsh":
		return ShellCsh
	default:
		return ShellSh
	}
}

// ShellScriptAdapter renders a mutation log as text a shell can source.
type ShellScriptAdapter struct{}

func NewShellScriptAdapter() ShellScriptAdapter {
	return ShellScriptAdapter{}
}

func (a ShellScriptAdapter) Render(ctx context.Context, shell string, mutations []types.Mutation) (string, error) {
	family := ShellFamily(shell)
	var b strings.Builder
	for _, mutation := range mutations {
		line, err := renderMutation(family, mutation)
		if err != nil {
			log.Ctx(ctx).Warn().
				Err(err).
				Str("op", string(mutation.Op)).
				Str("name", mutation.Name).
				Msg("skipping mutation the shell cannot express")
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func renderMutation(family string, mutation types.Mutation) (string, error) {
	if !syntax.ValidName(mutation.Name) && mutation.Op != types.MutationAlias && mutation.Op != types.MutationUnalias {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%q is not a valid variable name", mutation.Name))
	}
	switch mutation.Op {
	case types.MutationSet:
		value, err := quote(mutation.Value)
		if err != nil {
			return "", err
		}
		if family == ShellCsh {
			return fmt.Sprintf("setenv %s %s", mutation.Name, value), nil
		}
		return fmt.Sprintf("export %s=%s", mutation.Name, value), nil
	case types.MutationUnset:
		if family == ShellCsh {
			return "unsetenv " + mutation.Name, nil
		}
		return "unset " + mutation.Name, nil
	case types.MutationAlias:
		value, err := quote(mutation.Value)
		if err != nil {
			return "", err
		}
		if family == ShellCsh {
			return fmt.Sprintf("alias %s %s", mutation.Name, value), nil
		}
		return fmt.Sprintf("alias %s=%s", mutation.Name, value), nil
	case types.MutationUnalias:
		return "unalias " + mutation.Name, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown mutation %q", mutation.Op))
	}
}

func quote(value string) (string, error) {
	quoted, err := syntax.Quote(value, syntax.LangPOSIX)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("value cannot be quoted for the shell").
			WithCause(err)
	}
	return quoted, nil
}

var _ ports.ScriptPort = ShellScriptAdapter{}
