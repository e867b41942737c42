package adapters

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"eups-setup/internal/ports"
	"eups-setup/internal/types"
)

type mutationLogDocument struct {
	Mutations []types.Mutation `yaml:"mutations"`
}

// MutationLogAdapter renders the mutation log as YAML.
type MutationLogAdapter struct{}

func NewMutationLogAdapter() MutationLogAdapter {
	return MutationLogAdapter{}
}

func (a MutationLogAdapter) Render(mutations []types.Mutation) (string, error) {
	doc := mutationLogDocument{Mutations: mutations}
	if doc.Mutations == nil {
		doc.Mutations = []types.Mutation{}
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode mutation log").
			WithCause(err)
	}
	return string(data), nil
}

var _ ports.MutationLogPort = MutationLogAdapter{}
