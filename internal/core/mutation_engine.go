package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"eups-setup/internal/types"
)

const defaultDelimiter = ":"

type operation string

const (
	opSet     operation = "envSet"
	opUnset   operation = "envUnset"
	opAppend  operation = "envAppend"
	opPrepend operation = "envPrepend"
	opRemove  operation = "envRemove"
	opAlias   operation = "addAlias"
	opUnalias operation = "unAlias"
)

type primitivePair struct {
	Forward operation
	Reverse operation
}

// primitiveTable pairs every table command with the operation it performs
// on setup and on unsetup. envUnset reverses to envSet with the same line's
// arguments; the prior value is not captured.
var primitiveTable = map[types.CommandKind]primitivePair{
	types.CommandEnvSet:      {Forward: opSet, Reverse: opUnset},
	types.CommandEnvUnset:    {Forward: opUnset, Reverse: opSet},
	types.CommandEnvAppend:   {Forward: opAppend, Reverse: opRemove},
	types.CommandEnvPrepend:  {Forward: opPrepend, Reverse: opRemove},
	types.CommandEnvRemove:   {Forward: opRemove, Reverse: opAppend},
	types.CommandPathAppend:  {Forward: opAppend, Reverse: opRemove},
	types.CommandPathPrepend: {Forward: opPrepend, Reverse: opRemove},
	types.CommandPathRemove:  {Forward: opRemove, Reverse: opAppend},
	types.CommandAddAlias:    {Forward: opAlias, Reverse: opUnalias},
	types.CommandProdDir:     {Forward: opSet, Reverse: opUnset},
	types.CommandSetupEnv:    {Forward: opSet, Reverse: opUnset},
}

var operations = map[operation]func(env *Environment, args []string) error{
	opSet:     applySet,
	opUnset:   applyUnset,
	opAppend:  applyAppend,
	opPrepend: applyPrepend,
	opRemove:  applyRemove,
	opAlias:   applyAlias,
	opUnalias: applyUnalias,
}

// MutationEngine applies primitive table commands to an Environment.
type MutationEngine struct{}

func NewMutationEngine() MutationEngine {
	return MutationEngine{}
}

// Apply runs the half of cmd's primitive pair selected by direction.
// Arguments are used as given; callers interpolate them first.
func (m MutationEngine) Apply(env *Environment, cmd types.TableCommand, direction types.Direction) error {
	pair, ok := primitiveTable[cmd.Kind]
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s is not an environment primitive", cmd.Kind))
	}
	op := pair.Forward
	if direction == types.DirectionReverse {
		op = pair.Reverse
	}
	return operations[op](env, cmd.Args)
}

func applySet(env *Environment, args []string) error {
	name, err := argName(args, opSet)
	if err != nil {
		return err
	}
	env.Set(name, argAt(args, 1))
	return nil
}

func applyUnset(env *Environment, args []string) error {
	name, err := argName(args, opUnset)
	if err != nil {
		return err
	}
	env.Unset(name)
	return nil
}

func applyAppend(env *Environment, args []string) error {
	return updateList(env, args, opAppend, func(current []string, value string) []string {
		return append(current, value)
	})
}

func applyPrepend(env *Environment, args []string) error {
	return updateList(env, args, opPrepend, func(current []string, value string) []string {
		return append([]string{value}, current...)
	})
}

// applyRemove drops every occurrence of the value that sits between
// delimiters, including values that span several elements, then collapses
// doubled delimiters and trims them from both ends. A list left empty is
// unset, unless the variable started the walk set but empty.
func applyRemove(env *Environment, args []string) error {
	name, err := argName(args, opRemove)
	if err != nil {
		return err
	}
	value := argAt(args, 1)
	delim := listDelimiter(args)
	current, ok := env.Get(name)
	if !ok || value == "" {
		return nil
	}
	updated := collapseDelimiters(removeLiteral(current, value, delim), delim)
	if updated == current {
		return nil
	}
	if updated == "" && !env.EmptyAtStart(name) {
		env.Unset(name)
		return nil
	}
	env.Set(name, updated)
	return nil
}

// removeLiteral removes value from list wherever it starts and ends on a
// delimiter boundary, so /opt/a never matches inside /opt/ab.
func removeLiteral(list string, value string, delim string) string {
	padded := delim + list + delim
	needle := delim + value + delim
	for strings.Contains(padded, needle) {
		padded = strings.ReplaceAll(padded, needle, delim)
	}
	return padded
}

func applyAlias(env *Environment, args []string) error {
	name, err := argName(args, opAlias)
	if err != nil {
		return err
	}
	env.Alias(name, argAt(args, 1))
	return nil
}

func applyUnalias(env *Environment, args []string) error {
	name, err := argName(args, opUnalias)
	if err != nil {
		return err
	}
	env.Unalias(name)
	return nil
}

func updateList(env *Environment, args []string, op operation, update func([]string, string) []string) error {
	name, err := argName(args, op)
	if err != nil {
		return err
	}
	value := argAt(args, 1)
	if value == "" {
		return nil
	}
	delim := listDelimiter(args)
	var current []string
	if existing := env.Value(name); existing != "" {
		current = strings.Split(existing, delim)
	}
	env.Set(name, strings.Join(update(current, value), delim))
	return nil
}

func collapseDelimiters(value string, delim string) string {
	doubled := delim + delim
	for strings.Contains(value, doubled) {
		value = strings.ReplaceAll(value, doubled, delim)
	}
	value = strings.TrimPrefix(value, delim)
	return strings.TrimSuffix(value, delim)
}

func argName(args []string, op operation) (string, error) {
	name := argAt(args, 0)
	if name == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s requires a name", op))
	}
	return name, nil
}

func argAt(args []string, idx int) string {
	if idx < len(args) {
		return args[idx]
	}
	return ""
}

func listDelimiter(args []string) string {
	if delim := argAt(args, 2); delim != "" {
		return delim
	}
	return defaultDelimiter
}
