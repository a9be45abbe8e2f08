package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store reads and writes structured files below a root directory. Relative
// paths are resolved against the root; absolute paths are used as is.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the directory the store resolves relative paths against.
func (s *Store) Root() string {
	return s.root
}

// ReadJSON reads and unmarshals JSON from a file
func (s *Store) ReadJSON(path string, target any) error {
	data, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from %s: %w", path, err)
	}

	return nil
}

// WriteJSON writes data as indented JSON followed by a newline
func (s *Store) WriteJSON(path string, data any) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON for %s: %w", path, err)
	}

	return s.write(path, append(content, '\n'))
}

// WriteYAML writes data as YAML
func (s *Store) WriteYAML(path string, data any) error {
	content, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML for %s: %w", path, err)
	}

	return s.write(path, content)
}

func (s *Store) write(path string, content []byte) error {
	fullPath := s.resolve(path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func (s *Store) resolve(path string) string {
	if filepath.IsAbs(path) || s.root == "" {
		return path
	}

	return filepath.Join(s.root, path)
}
