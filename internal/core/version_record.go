package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"eups-setup/internal/policies"
	"eups-setup/internal/ports"
	"eups-setup/internal/types"
)

type VersionReader struct {
	Database ports.DatabasePort
	Tables   ports.TablePort
}

func NewVersionReader(db ports.DatabasePort, tables ports.TablePort) VersionReader {
	return VersionReader{Database: db, Tables: tables}
}

// ResolveVersion reads <root>/ups_db/<product>/<version>.version and
// returns the product and table locations declared for flavor.
func (r VersionReader) ResolveVersion(ctx context.Context, env *Environment, root types.Root, product string, version string, flavor string) (types.VersionRecord, error) {
	if !r.Database.VersionExists(root, product, version) {
		return types.VersionRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no version %s of %s in %s", version, product, root.Path))
	}
	raw, err := r.Database.ReadVersion(root, product, version)
	if err != nil {
		return types.VersionRecord{}, err
	}
	file := ParseDatabaseFile(raw)
	idx, err := policies.NewFlavorPolicy(flavor).Select(file.Blocks)
	if err != nil {
		return types.VersionRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("version %s of %s is not declared for flavor %s", version, product, flavor)).
			WithCause(err)
	}
	block := file.Blocks[idx]

	prodDir, ok := block.Field("prod_dir")
	if !ok || strings.TrimSpace(prodDir) == "" {
		return types.VersionRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("version %s of %s has no PROD_DIR", version, product))
	}
	prodDir = env.Interpolate(strings.TrimSpace(prodDir))
	if !filepath.IsAbs(prodDir) {
		prodDir = filepath.Join(root.Path, prodDir)
	}

	upsDir, ok := block.Field("ups_dir")
	if !ok || strings.TrimSpace(upsDir) == "" {
		upsDir = types.DefaultUpsDir
	}
	upsDir = substituteTokens(strings.TrimSpace(upsDir), databaseTokens, root.Database())
	upsDir = substituteTokens(upsDir, productDirTokens, prodDir)
	if !filepath.IsAbs(upsDir) {
		upsDir = filepath.Join(prodDir, upsDir)
	}

	tableFile, ok := block.Field("table_file")
	if !ok || strings.TrimSpace(tableFile) == "" {
		tableFile = product + types.TableFileExt
	}
	tableFile = strings.TrimSpace(tableFile)
	if tableFile != types.NoTableFile {
		if !filepath.IsAbs(tableFile) {
			tableFile = filepath.Join(upsDir, tableFile)
		}
		if !r.Tables.TableExists(tableFile) {
			log.Ctx(ctx).Warn().Str("product", product).Str("version", version).Str("table", tableFile).Msg("table file is missing or unreadable")
		}
	}

	return types.VersionRecord{
		Product:    product,
		Version:    version,
		Flavor:     flavor,
		ProductDir: filepath.Clean(prodDir),
		UpsDir:     filepath.Clean(upsDir),
		TableFile:  tableFile,
	}, nil
}
