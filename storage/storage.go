// Package storage persists the attendance document as a single JSON file.
// It is the zero-dependency alternative to the Postgres store for running
// the tracker as a plain single binary.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"attendance/models"
)

// DefaultPath returns the default data file location (~/.dochadzka/attendance.json).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".dochadzka", "attendance.json"), nil
}

// FileStore reads and writes the whole state document at a fixed path.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the document. A missing file reports absent. A corrupt file is
// renamed aside with a .corrupt suffix and also reported absent, so startup
// falls back to an empty document instead of failing.
func (s *FileStore) Load() (models.AttendanceState, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return models.AttendanceState{}, false, nil
	}
	if err != nil {
		return models.AttendanceState{}, false, fmt.Errorf("storage error reading %s: %w", s.path, err)
	}

	var state models.AttendanceState
	if err := json.Unmarshal(data, &state); err != nil {
		backupPath := s.path + ".corrupt"
		_ = os.Rename(s.path, backupPath)
		return models.AttendanceState{}, false, nil
	}
	return state, true, nil
}

// Save atomically rewrites the document: write to a temp file then rename.
func (s *FileStore) Save(state models.AttendanceState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
