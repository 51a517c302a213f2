// Package store persists registry snapshots to disk so banditd can restore
// experiment state across restarts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fyrsmithlabs/banditd/internal/bandit"
)

// ErrCorrupted indicates the snapshot file exists but cannot be decoded.
var ErrCorrupted = errors.New("snapshot file corrupted")

// Store reads and writes one snapshot file.
type Store struct {
	path string
}

// New creates a store for the given snapshot path and ensures the parent
// directory exists.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string { return s.path }

// Save writes the snapshot atomically (tmp file + rename) so a crash mid-write
// never leaves a truncated snapshot behind.
func (s *Store) Save(snap bandit.RegistrySnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot file. A missing file returns ok=false with no
// error (fresh start); a present but undecodable file fails with
// ErrCorrupted.
func (s *Store) Load() (bandit.RegistrySnapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return bandit.RegistrySnapshot{}, false, nil
		}
		return bandit.RegistrySnapshot{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap bandit.RegistrySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return bandit.RegistrySnapshot{}, false, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return snap, true, nil
}
