package types

type Direction string

const (
	DirectionForward Direction = "forward"
	DirectionReverse Direction = "reverse"
)

func (d Direction) String() string {
	return string(d)
}

type MutationOp string

const (
	MutationSet     MutationOp = "set"
	MutationUnset   MutationOp = "unset"
	MutationAlias   MutationOp = "alias"
	MutationUnalias MutationOp = "unalias"
)

// Mutation is one applied change to the environment, in application order.
type Mutation struct {
	Op    MutationOp `yaml:"op"`
	Name  string     `yaml:"name"`
	Value string     `yaml:"value,omitempty"`
}

// UnsetGuard records products already torn down in one unsetup call tree.
type UnsetGuard map[string]struct{}

func NewUnsetGuard() UnsetGuard {
	return UnsetGuard{}
}

func (g UnsetGuard) Has(product string) bool {
	_, ok := g[product]
	return ok
}

func (g UnsetGuard) Add(product string) {
	g[product] = struct{}{}
}
