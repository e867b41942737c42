package core

import (
	"regexp"
	"strings"

	"eups-setup/internal/types"
)

var fieldPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)

// ParseDatabaseFile splits a chain, version or table file into flavor
// blocks. Legacy "Group: ... End:" spans come first in the result, then
// blocks introduced by a "FLAVOR = name" marker line and running to the
// next marker, group or end of file. Lines before any block form the
// preamble.
func ParseDatabaseFile(raw string) types.DatabaseFile {
	file := types.DatabaseFile{Preamble: map[string]string{}}
	var groups []types.FlavorBlock
	var markers []types.FlavorBlock
	var current *types.FlavorBlock
	inCommon := false

	closeBlock := func() {
		if current == nil {
			return
		}
		if current.Group {
			groups = append(groups, *current)
		} else {
			markers = append(markers, *current)
		}
		current = nil
		inCommon = false
	}

	for _, line := range stripComments(raw) {
		trimmed := strings.TrimSpace(line.Text)
		switch {
		case strings.EqualFold(trimmed, "group:"):
			closeBlock()
			current = &types.FlavorBlock{Group: true, Fields: map[string]string{}}
			continue
		case strings.EqualFold(trimmed, "common:"):
			if current != nil && current.Group {
				inCommon = true
			}
			continue
		case strings.EqualFold(trimmed, "end:"):
			if current != nil && current.Group {
				closeBlock()
			}
			continue
		}

		key, value, isField := parseField(trimmed)
		if isField && strings.EqualFold(key, "flavor") {
			if current != nil && current.Group && !inCommon {
				current.Flavors = append(current.Flavors, value)
				continue
			}
			closeBlock()
			current = &types.FlavorBlock{Flavors: []string{value}, Fields: map[string]string{}}
			continue
		}

		if current == nil {
			if isField {
				storeField(file.Preamble, key, value)
			}
			file.PreambleLines = append(file.PreambleLines, line)
			continue
		}
		if isField {
			storeField(current.Fields, key, value)
		}
		if !current.Group || inCommon {
			current.Lines = append(current.Lines, line)
		}
	}
	closeBlock()

	file.Blocks = append(groups, markers...)
	return file
}

// stripComments drops blank lines and lines whose first non-space
// character is '#', keeping original line numbers.
func stripComments(raw string) []types.SourceLine {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var out []types.SourceLine
	for idx, text := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, types.SourceLine{Number: idx + 1, Text: text})
	}
	return out
}

func parseField(line string) (string, string, bool) {
	matches := fieldPattern.FindStringSubmatch(line)
	if matches == nil {
		return "", "", false
	}
	return matches[1], unquote(strings.TrimSpace(matches[2])), true
}

func storeField(fields map[string]string, key string, value string) {
	key = strings.ToLower(key)
	if _, seen := fields[key]; seen {
		return
	}
	fields[key] = value
}

// unquote strips one layer of surrounding double quotes.
func unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}
	return value
}
