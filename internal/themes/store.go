// Package themes stores named theme presets as <name>.yaml files in one
// directory.
package themes

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/rendercv-live/internal/assets"
	"github.com/jonathan/rendercv-live/internal/repair"
)

// Builtin lists the themes that ship with the editor and cannot be deleted.
var Builtin = []string{"classic", "moderncv", "sb2nov", "engineeringclassic"}

var validName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidName reports whether name can be used as a theme file stem.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// IsBuiltin reports whether name is one of the protected built-in themes.
func IsBuiltin(name string) bool {
	return slices.Contains(Builtin, name)
}

// Store is a directory of theme files. It does no locking; concurrent saves
// to the same name are last-writer-wins.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on first
// write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store reads and writes.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

// List returns the names of all stored themes, sorted.
func (s *Store) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list themes in %s: %w", s.dir, err)
	}

	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		name := strings.TrimSuffix(filepath.Base(match), ".yaml")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, name := range Builtin {
		if !seen[name] && fileExists(s.path(name)) {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

// Get returns the raw contents of a theme.
func (s *Store) Get(name string) (string, error) {
	if !ValidName(name) {
		return "", &InvalidNameError{Name: name}
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Name: name, Cause: err}
		}
		return "", fmt.Errorf("failed to read theme %s: %w", name, err)
	}
	return string(data), nil
}

// Save writes content as theme name. design.theme in the content is set to
// name before writing.
func (s *Store) Save(name, content string) error {
	if !ValidName(name) {
		return &InvalidNameError{Name: name}
	}

	named, err := WithThemeName(content, name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}
	if err := os.WriteFile(s.path(name), []byte(named), 0o644); err != nil {
		return fmt.Errorf("failed to save theme %s: %w", name, err)
	}

	log.Printf("[themes] saved %s", s.path(name))
	return nil
}

// Delete removes a user theme. Built-in themes are refused; symlinks and
// other non-regular files are reported as not found.
func (s *Store) Delete(name string) error {
	if !ValidName(name) {
		return &InvalidNameError{Name: name}
	}
	if IsBuiltin(name) {
		return &ProtectedError{Name: name, Message: fmt.Sprintf("Cannot delete built-in theme '%s'", name)}
	}

	path := s.path(name)
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &NotFoundError{Name: name, Cause: err}
		}
		return fmt.Errorf("failed to stat theme %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return &NotFoundError{Name: name, Message: "Theme file not found or is not accessible"}
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete theme %s: %w", name, err)
	}

	log.Printf("[themes] deleted %s", path)
	return nil
}

// EnsureBuiltins writes the embedded built-in themes that are missing from
// the directory. Existing files are never overwritten.
func (s *Store) EnsureBuiltins() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	for _, name := range assets.BuiltinThemes() {
		path := s.path(name)
		if _, err := os.Lstat(path); err == nil {
			continue
		}
		content, err := assets.BuiltinTheme(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to seed theme %s: %w", name, err)
		}
		log.Printf("[themes] seeded built-in theme %s", path)
	}
	return nil
}

// DefaultContent returns the YAML shown when the editor opens: the classic
// theme, else the first stored theme, else the embedded fallback template.
func (s *Store) DefaultContent() string {
	if content, err := s.Get("classic"); err == nil && content != "" {
		return content
	}

	if names, err := s.List(); err == nil && len(names) > 0 {
		if content, err := s.Get(names[0]); err == nil && content != "" {
			return content
		}
	}

	return assets.MustGet(assets.DefaultTheme)
}

// WithThemeName parses content as a YAML mapping, sets design.theme to name
// (creating design when absent) and re-serializes it. Key order and comments
// are preserved.
func WithThemeName(content, name string) (string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return "", &InvalidContentError{Message: "YAML does not parse", Cause: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return "", &InvalidContentError{Message: "top level must be a mapping"}
	}

	root := doc.Content[0]
	design := repair.Lookup(root, "design")
	switch {
	case design == nil:
		design = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root.Content = append(root.Content, scalar("design"), design)
	case design.Kind != yaml.MappingNode:
		return "", &InvalidContentError{Message: "design must be a mapping"}
	}

	if theme := repair.Lookup(design, "theme"); theme != nil {
		*theme = *scalar(name)
	} else {
		design.Content = append(design.Content, scalar("theme"), scalar(name))
	}

	out, err := repair.Encode(&doc)
	if err != nil {
		return "", &InvalidContentError{Message: "failed to serialize theme", Cause: err}
	}
	return out, nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
