package adapters

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"eups-setup/internal/ports"
	"eups-setup/internal/types"
)

// DatabaseFileAdapter reads chain and version files from <root>/ups_db.
type DatabaseFileAdapter struct{}

func NewDatabaseFileAdapter() DatabaseFileAdapter {
	return DatabaseFileAdapter{}
}

func (a DatabaseFileAdapter) HasDatabase(path string) bool {
	info, err := os.Stat(filepath.Join(path, types.DatabaseDirName))
	return err == nil && info.IsDir()
}

func (a DatabaseFileAdapter) ChainExists(root types.Root, product string) bool {
	return isRegularFile(chainPath(root, product))
}

func (a DatabaseFileAdapter) ReadChain(root types.Root, product string) (string, error) {
	return readMetadata(chainPath(root, product))
}

func (a DatabaseFileAdapter) VersionExists(root types.Root, product string, version string) bool {
	return isRegularFile(versionPath(root, product, version))
}

func (a DatabaseFileAdapter) ReadVersion(root types.Root, product string, version string) (string, error) {
	return readMetadata(versionPath(root, product, version))
}

func (a DatabaseFileAdapter) ListVersions(root types.Root, product string) ([]string, error) {
	entries, err := os.ReadDir(root.ProductDatabase(product))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("read product database %s", root.ProductDatabase(product))).
			WithCause(err)
	}
	var versions []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), types.VersionFileExt) {
			continue
		}
		versions = append(versions, strings.TrimSuffix(entry.Name(), types.VersionFileExt))
	}
	sort.Strings(versions)
	return versions, nil
}

func chainPath(root types.Root, product string) string {
	return filepath.Join(root.ProductDatabase(product), types.ChainFileName)
}

func versionPath(root types.Root, product string, version string) string {
	return filepath.Join(root.ProductDatabase(product), version+types.VersionFileExt)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func readMetadata(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errbuilder.CodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = errbuilder.CodeNotFound
		}
		return "", errbuilder.New().
			WithCode(code).
			WithMsg(fmt.Sprintf("read %s", path)).
			WithCause(err)
	}
	return string(data), nil
}

var _ ports.DatabasePort = DatabaseFileAdapter{}
