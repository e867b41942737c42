package types

import "strings"

const (
	FlavorAny  = "ANY"
	FlavorNull = "NULL"
)

// FlavorBlock is one flavor-scoped section of a chain, version or table
// file. A legacy group may declare several flavors; marker blocks declare one.
type FlavorBlock struct {
	Flavors []string
	Fields  map[string]string
	Lines   []SourceLine
	Group   bool
}

// SourceLine is a non-comment line with its 1-based position in the file.
type SourceLine struct {
	Number int
	Text   string
}

// DatabaseFile is the parsed form of a chain or version file.
type DatabaseFile struct {
	Preamble      map[string]string
	PreambleLines []SourceLine
	Blocks        []FlavorBlock
}

// HasGroups reports whether any block came from the legacy group grammar.
func (f DatabaseFile) HasGroups() bool {
	for _, block := range f.Blocks {
		if block.Group {
			return true
		}
	}
	return false
}

// Field returns a block field by case-insensitive key.
func (b FlavorBlock) Field(key string) (string, bool) {
	value, ok := b.Fields[strings.ToLower(key)]
	return value, ok
}
