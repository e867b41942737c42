package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"eups-setup/internal/policies"
	"eups-setup/internal/types"
)

var (
	productDirTokens = []string{"${PRODUCT_DIR}", "${UPS_PROD_DIR}", "${PROD_DIR}"}
	upsDirTokens     = []string{"${UPS_DIR}", "${UPS_UPS_DIR}"}
	databaseTokens   = []string{"${PRODUCTS}", "${UPS_DB}"}
	flavorTokens     = []string{"${PRODUCT_FLAVOR}", "${UPS_PROD_FLAVOR}"}
	nameTokens       = []string{"${PRODUCT_NAME}", "${UPS_PROD_NAME}"}
	versionTokens    = []string{"${PRODUCT_VERSION}", "${UPS_PROD_VERSION}"}
)

var (
	callPattern        = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\((.*)\)\s*;?$`)
	boilerplatePattern = regexp.MustCompile(`(?i)^([A-Za-z_][A-Za-z0-9_]*\s*=.*|(group|common|end):)$`)
)

var commandKinds = map[string]types.CommandKind{}

func init() {
	for _, kind := range []types.CommandKind{
		types.CommandEnvSet,
		types.CommandEnvAppend,
		types.CommandEnvPrepend,
		types.CommandEnvRemove,
		types.CommandEnvUnset,
		types.CommandPathAppend,
		types.CommandPathPrepend,
		types.CommandPathRemove,
		types.CommandAddAlias,
		types.CommandProdDir,
		types.CommandSetupEnv,
		types.CommandSetupRequired,
		types.CommandSetupOptional,
	} {
		commandKinds[strings.ToLower(string(kind))] = kind
	}
}

type TableParser struct{}

func NewTableParser() TableParser {
	return TableParser{}
}

// Parse turns raw table text into the ordered command sequence for flavor.
func (p TableParser) Parse(ctx context.Context, raw string, tc types.TableContext) ([]types.TableCommand, error) {
	lines, err := p.ExtractCommands(raw, tc.Flavor)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("table for %s has no block for flavor %s", tc.Product, tc.Flavor)).
			WithCause(err)
	}
	for i := range lines {
		lines[i].Text = Substitute(lines[i].Text, tc)
	}
	return p.ParseCommands(ctx, lines), nil
}

// ExtractCommands selects the command lines for flavor. Tables written in
// the legacy group grammar must have a matching group; flat tables keep
// their preamble plus every marker block of the best matching flavor.
func (p TableParser) ExtractCommands(raw string, flavor string) ([]types.SourceLine, error) {
	file := ParseDatabaseFile(raw)
	policy := policies.NewFlavorPolicy(flavor)
	if file.HasGroups() {
		var groups []types.FlavorBlock
		for _, block := range file.Blocks {
			if block.Group {
				groups = append(groups, block)
			}
		}
		idx, err := policy.Select(groups)
		if err != nil {
			return nil, err
		}
		return append([]types.SourceLine(nil), groups[idx].Lines...), nil
	}

	lines := append([]types.SourceLine(nil), file.PreambleLines...)
	best := policy.BestRank(file.Blocks)
	if best == policies.RankNone {
		return lines, nil
	}
	for _, block := range file.Blocks {
		if policy.BlockRank(block) == best {
			lines = append(lines, block.Lines...)
		}
	}
	return lines, nil
}

// ParseCommands parses call-syntax lines. Non-call lines are skipped;
// unrecognized command names are reported and skipped.
func (p TableParser) ParseCommands(ctx context.Context, lines []types.SourceLine) []types.TableCommand {
	var commands []types.TableCommand
	for _, line := range lines {
		trimmed := strings.TrimSpace(line.Text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		matches := callPattern.FindStringSubmatch(trimmed)
		if matches == nil {
			if !boilerplatePattern.MatchString(trimmed) {
				log.Ctx(ctx).Debug().Int("line", line.Number).Str("text", trimmed).Msg("unknown table line")
			}
			continue
		}
		kind, ok := commandKinds[strings.ToLower(matches[1])]
		if !ok {
			log.Ctx(ctx).Warn().Int("line", line.Number).Str("command", matches[1]).Msg("unknown table command")
			continue
		}
		commands = append(commands, types.TableCommand{
			Kind: kind,
			Args: splitArgs(matches[2]),
			Line: line.Number,
		})
	}
	return commands
}

// Substitute replaces the table placeholders verbatim.
func Substitute(text string, tc types.TableContext) string {
	if !strings.Contains(text, "${") {
		return text
	}
	text = substituteTokens(text, productDirTokens, tc.ProductDir)
	text = substituteTokens(text, upsDirTokens, tc.UpsDir)
	text = substituteTokens(text, databaseTokens, tc.Database)
	text = substituteTokens(text, flavorTokens, tc.Flavor)
	text = substituteTokens(text, nameTokens, tc.Product)
	return substituteTokens(text, versionTokens, tc.Version)
}

func substituteTokens(text string, tokens []string, value string) string {
	for _, token := range tokens {
		text = strings.ReplaceAll(text, token, value)
	}
	return text
}

// splitArgs splits on commas outside double quotes and cleans each
// argument: surrounding whitespace, then one layer of double quotes.
func splitArgs(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	var args []string
	var current strings.Builder
	quoted := false
	for _, r := range list {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case r == ',' && !quoted:
			args = append(args, cleanArg(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(args, cleanArg(current.String()))
}

func cleanArg(arg string) string {
	return unquote(strings.TrimSpace(arg))
}
