package ports

// TablePort reads product table files.
type TablePort interface {
	TableExists(path string) bool
	ReadTable(path string) (string, error)
}
