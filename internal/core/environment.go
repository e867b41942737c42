package core

import (
	"maps"
	"regexp"
	"strings"

	"eups-setup/internal/types"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Environment is the single mutable variable and alias namespace shared by
// a whole setup or unsetup walk. Every change is appended to a mutation log
// in application order.
type Environment struct {
	vars      map[string]string
	aliases   map[string]string
	mutations []types.Mutation
	// emptyAtStart holds variables that were set to "" when the
	// Environment was built.
	emptyAtStart map[string]struct{}
}

// NewEnvironment builds an Environment from KEY=VALUE pairs such as
// os.Environ output. Entries without '=' are ignored.
func NewEnvironment(environ []string) *Environment {
	env := &Environment{
		vars:         map[string]string{},
		aliases:      map[string]string{},
		emptyAtStart: map[string]struct{}{},
	}
	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		env.vars[name] = value
		if value == "" {
			env.emptyAtStart[name] = struct{}{}
		}
	}
	return env
}

// EmptyAtStart reports whether name was set to the empty string in the
// environment the walk started from.
func (e *Environment) EmptyAtStart(name string) bool {
	_, ok := e.emptyAtStart[name]
	return ok
}

func (e *Environment) Get(name string) (string, bool) {
	value, ok := e.vars[name]
	return value, ok
}

// Value returns the variable or the empty string when unset.
func (e *Environment) Value(name string) string {
	return e.vars[name]
}

func (e *Environment) Has(name string) bool {
	_, ok := e.vars[name]
	return ok
}

func (e *Environment) Set(name string, value string) {
	e.vars[name] = value
	e.mutations = append(e.mutations, types.Mutation{Op: types.MutationSet, Name: name, Value: value})
}

func (e *Environment) Unset(name string) {
	delete(e.vars, name)
	e.mutations = append(e.mutations, types.Mutation{Op: types.MutationUnset, Name: name})
}

func (e *Environment) Alias(name string, value string) {
	e.aliases[name] = value
	e.mutations = append(e.mutations, types.Mutation{Op: types.MutationAlias, Name: name, Value: value})
}

func (e *Environment) Unalias(name string) {
	delete(e.aliases, name)
	e.mutations = append(e.mutations, types.Mutation{Op: types.MutationUnalias, Name: name})
}

func (e *Environment) AliasValue(name string) (string, bool) {
	value, ok := e.aliases[name]
	return value, ok
}

// Snapshot copies the current variables.
func (e *Environment) Snapshot() map[string]string {
	return maps.Clone(e.vars)
}

// Mutations returns a copy of the mutation log.
func (e *Environment) Mutations() []types.Mutation {
	return append([]types.Mutation(nil), e.mutations...)
}

// Interpolate replaces ${NAME} with the current value of NAME. Unset
// variables expand to the empty string.
func (e *Environment) Interpolate(value string) string {
	if !strings.Contains(value, "${") {
		return value
	}
	return placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := match[2 : len(match)-1]
		return e.vars[name]
	})
}

// InterpolateAll interpolates every argument against the current state.
func (e *Environment) InterpolateAll(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = e.Interpolate(arg)
	}
	return out
}
