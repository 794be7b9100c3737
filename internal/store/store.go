// Package store persists the interview state across restarts: the active
// session, if any, and the append-only candidate history. The state file is
// opaque local JSON; the only contract the engine has with it is the
// reconciler's corruption check.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkarpov/interview-runner/internal/interview"
)

// State is the persisted snapshot.
type State struct {
	Session    *interview.Session     `json:"session,omitempty"`
	Candidates []*interview.Candidate `json:"candidates"`
}

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the state file. A missing or empty file yields an empty state.
func (s *Store) Load() (*State, error) {
	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &State{}, nil
	}

	var state State
	if err := json.NewDecoder(file).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	return &state, nil
}

// Save writes the state file, replacing previous content. The state goes
// through a temp file in the same directory first, so an interrupted write
// never clobbers the existing copy.
func (s *Store) Save(state *State) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode state file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}
