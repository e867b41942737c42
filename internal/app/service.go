package app

import (
	"os"

	"eups-setup/internal/adapters"
	"eups-setup/internal/core"
	"eups-setup/internal/ports"
)

type Service struct {
	Database    ports.DatabasePort
	Tables      ports.TablePort
	Script      ports.ScriptPort
	MutationLog ports.MutationLogPort
	Environ     func() []string
}

func NewService() Service {
	return Service{
		Database:    adapters.NewDatabaseFileAdapter(),
		Tables:      adapters.NewTableFileAdapter(),
		Script:      adapters.NewShellScriptAdapter(),
		MutationLog: adapters.NewMutationLogAdapter(),
		Environ:     os.Environ,
	}
}

func (s Service) environment() *core.Environment {
	return core.NewEnvironment(s.Environ())
}

func (s Service) walker() core.Walker {
	return core.NewWalker(s.Database, s.Tables)
}
