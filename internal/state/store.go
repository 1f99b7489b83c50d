package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	applogger "StockSentry/pkg/logger"
)

// Store reads and writes the cooldown state file. One process owns the file
// for the duration of a run: load at start, save at end. The atomic replace
// keeps a crash mid-write from corrupting the store, but concurrent writers
// still race last-writer-wins; callers needing multi-writer safety must
// serialize externally.
type Store struct {
	path string
	l    *applogger.Logger
}

func NewStore(path string, l *applogger.Logger) *Store {
	return &Store{path: path, l: l}
}

// Load returns the persisted state, or a fresh default when the file is
// absent or corrupt. Losing cooldown history is preferable to failing the
// whole run, so read errors degrade with a warning instead of propagating.
func (s *Store) Load() *State {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && s.l != nil {
			s.l.Warn("state file unreadable, starting fresh",
				applogger.String("path", s.path),
				applogger.Error(err),
			)
		}
		return NewState()
	}

	st := NewState()
	if err := json.Unmarshal(b, st); err != nil {
		if s.l != nil {
			s.l.Warn("state file corrupt, starting fresh",
				applogger.String("path", s.path),
				applogger.Error(err),
			)
		}
		return NewState()
	}
	if st.Version == 0 {
		st.Version = CurrentVersion
	}
	return st
}

// Save writes the state via a temp file in the same directory followed by a
// rename, so readers never observe a partial write.
func (s *Store) Save(st *State) error {
	st.Version = CurrentVersion

	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("state temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
