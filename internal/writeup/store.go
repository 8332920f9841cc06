// Package writeup persists the user's personal writeup between sessions.
package writeup

import (
	"fmt"
	"os"
	"path/filepath"
)

const fileName = "saved_description.txt"

// Store reads and writes the saved personal writeup at a fixed path
// inside the data directory.
type Store struct {
	path string
}

// NewStore creates a store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, fileName)}
}

// Path returns the location of the saved writeup file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved writeup and whether one exists. A missing file is
// not an error.
func (s *Store) Load() (string, bool, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load saved writeup: %w", err)
	}
	return string(b), true, nil
}

// Save writes the writeup to disk, creating the data directory if needed.
func (s *Store) Save(text string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("save writeup: %w", err)
	}
	return nil
}

// Delete removes the saved writeup if present.
func (s *Store) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete saved writeup: %w", err)
	}
	return nil
}
