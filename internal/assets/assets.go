// Package assets provides the files compiled into the binary: the sample CV
// used for theme previews, the built-in themes, the fallback theme template
// and the live editor page.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed sample_cv.yaml default_theme.yaml themes/*.yaml web/index.html
var files embed.FS

const (
	// SampleCV is the résumé rendered by theme previews
	SampleCV = "sample_cv.yaml"

	// DefaultTheme is the template used when no theme file exists
	DefaultTheme = "default_theme.yaml"

	// EditorPage is the html/template source of the live editor
	EditorPage = "web/index.html"

	themesDir = "themes"
)

// cache stores file contents to avoid repeated reads of the embedded FS
var (
	cache   = make(map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves an embedded file by its path relative to the package
// (e.g., "themes/classic.yaml").
func Get(name string) (string, error) {
	cacheMu.RLock()
	if content, exists := cache[name]; exists {
		cacheMu.RUnlock()
		return content, nil
	}
	cacheMu.RUnlock()

	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read asset %s: %w", name, err)
	}

	content := string(data)
	cacheMu.Lock()
	cache[name] = content
	cacheMu.Unlock()

	return content, nil
}

// MustGet retrieves an embedded file, panicking if it is missing.
// Use this for assets that are required at initialization time.
func MustGet(name string) string {
	content, err := Get(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load asset: %v", err))
	}
	return content
}

// ClearCache clears the asset cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]string)
	cacheMu.Unlock()
}

// BuiltinThemes returns the names of the embedded themes, sorted.
func BuiltinThemes() []string {
	entries, err := fs.ReadDir(files, themesDir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// BuiltinTheme returns the embedded content of a built-in theme.
func BuiltinTheme(name string) (string, error) {
	return Get(path.Join(themesDir, name+".yaml"))
}
