package types

type CommandKind string

const (
	CommandEnvSet        CommandKind = "envSet"
	CommandEnvAppend     CommandKind = "envAppend"
	CommandEnvPrepend    CommandKind = "envPrepend"
	CommandEnvRemove     CommandKind = "envRemove"
	CommandEnvUnset      CommandKind = "envUnset"
	CommandPathAppend    CommandKind = "pathAppend"
	CommandPathPrepend   CommandKind = "pathPrepend"
	CommandPathRemove    CommandKind = "pathRemove"
	CommandAddAlias      CommandKind = "addAlias"
	CommandProdDir       CommandKind = "proddir"
	CommandSetupEnv      CommandKind = "setupEnv"
	CommandSetupRequired CommandKind = "setupRequired"
	CommandSetupOptional CommandKind = "setupOptional"
)

// TableCommand is one parsed call line of a table file.
type TableCommand struct {
	Kind CommandKind
	Args []string
	Line int
}

// IsDependency reports whether the command names a sub-product.
func (c TableCommand) IsDependency() bool {
	return c.Kind == CommandSetupRequired || c.Kind == CommandSetupOptional
}

// Required reports whether a dependency failure counts against the parent.
func (c TableCommand) Required() bool {
	return c.Kind == CommandSetupRequired
}

// TableContext carries the values substituted for table placeholders.
type TableContext struct {
	Product    string
	Version    string
	Flavor     string
	ProductDir string
	UpsDir     string
	Database   string
}
