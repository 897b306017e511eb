package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultExtensions lists file types treated as translation tables.
var DefaultExtensions = map[string]bool{
	".json":  true,
	".jsonc": true,
}

// Walker discovers translation files under a directory.
type Walker struct {
	extensions map[string]bool
}

// NewWalker creates a Walker matching DefaultExtensions.
func NewWalker() *Walker {
	return &Walker{extensions: DefaultExtensions}
}

// Walk returns matching files under root, sorted by path.
// Unreadable subdirectories are logged and skipped.
func (w *Walker) Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if w.extensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Strings(files)
	log.Info().Int("count", len(files)).Str("root", root).Msg("Discovered translation files")
	return files, nil
}
