package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FontPaths returns the directories passed to the compiler as --font-path,
// in order: the RenderCV assets font directory, then FontPath. Directories
// that do not exist are skipped.
func (c *Config) FontPaths() []string {
	var paths []string

	if dir := c.AssetsFontDir(); dir != "" {
		if isDir(dir) {
			paths = append(paths, dir)
		} else {
			log.Printf("[config] RenderCV font path does not exist: %s", dir)
		}
	}

	if c.FontPath != "" {
		if isDir(c.FontPath) {
			paths = append(paths, WithTrailingSeparator(c.FontPath))
		} else {
			log.Printf("[config] RENDERCV_FONT_PATH does not exist: %s", c.FontPath)
		}
	}

	return paths
}

// AssetsFontDir returns the fonts directory inside AssetsDir, or "" when no
// assets directory is configured.
func (c *Config) AssetsFontDir() string {
	if c.AssetsDir == "" {
		return ""
	}
	return filepath.Join(c.AssetsDir, "fonts")
}

// IconFontsAvailable reports whether icon glyphs are likely to render. An
// explicit FontPath counts as available; otherwise the assets font directory
// is scanned for icon font files.
func (c *Config) IconFontsAvailable() bool {
	if c.FontPath != "" {
		return true
	}

	dir := c.AssetsFontDir()
	if dir == "" {
		return false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if IsIconFont(entry.Name()) {
			return true
		}
	}
	return false
}

// IsIconFont matches Font Awesome style file names.
func IsIconFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "fa-") ||
		strings.Contains(lower, "awesome") ||
		strings.Contains(lower, "icon")
}

// WithTrailingSeparator appends a path separator to dir if it lacks one.
func WithTrailingSeparator(dir string) string {
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, `\`) {
		return dir
	}
	return dir + string(os.PathSeparator)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
