package adapters

import (
	"eups-setup/internal/ports"
)

type TableFileAdapter struct{}

func NewTableFileAdapter() TableFileAdapter {
	return TableFileAdapter{}
}

func (a TableFileAdapter) TableExists(path string) bool {
	return isRegularFile(path)
}

func (a TableFileAdapter) ReadTable(path string) (string, error) {
	return readMetadata(path)
}

var _ ports.TablePort = TableFileAdapter{}
