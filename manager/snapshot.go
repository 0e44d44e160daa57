package manager

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"dwin-go/core"
)

const (
	// StateFileName is the name of the snapshot file.
	StateFileName = "state.json"
)

// DefaultStateDir returns the snapshot directory,
// $XDG_STATE_HOME/dwin-go or ~/.local/state/dwin-go.
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "dwin-go")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "dwin-go")
}

// Snapshot is the on-disk image of the manager state. The list/state
// commands read it; the run command writes it when the manager exits.
type Snapshot struct {
	// SavedAt is the time the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	// State is the full engine state.
	State *core.State `json:"state"`
}

// LoadSnapshot reads a snapshot from a JSON file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.State == nil {
		snap.State = core.NewState()
	}
	return &snap, nil
}

// Save writes the snapshot to a JSON file atomically.
// Uses temp file + rename pattern to prevent corruption on crash.
func (s *Snapshot) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	// Create temp file in same directory (ensures same filesystem for atomic rename)
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	// Ensure temp file is cleaned up on error
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	// Write data to temp file
	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return err
	}

	// Sync to ensure data is on disk before rename
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	// Set permissions
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return err
	}

	// Atomic rename (on POSIX systems)
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}

// SaveState snapshots the manager's current state to path.
func (m *Manager) SaveState(path string) error {
	snap := &Snapshot{
		SavedAt: time.Now(),
		State:   m.State,
	}
	return snap.Save(path)
}
