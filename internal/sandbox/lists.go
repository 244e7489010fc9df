package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	yaml "go.yaml.in/yaml/v3"
)

// UserLists holds the user-maintained allow and deny entries.
// Entries are matched as case-insensitive substrings of the command.
type UserLists struct {
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// ListStore loads and persists user lists from a YAML file.
// It is safe for concurrent use.
type ListStore struct {
	path string

	mu    sync.RWMutex
	lists UserLists
}

// NewListStore creates a store backed by path and loads it if present.
// A missing file is not an error; the store starts empty.
func NewListStore(path string) (*ListStore, error) {
	s := &ListStore{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *ListStore) Path() string {
	return s.path
}

// Reload re-reads the backing file. Missing files reset to empty lists.
func (s *ListStore) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.mu.Lock()
			s.lists = UserLists{}
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("reading sandbox lists: %w", err)
	}

	var lists UserLists
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return fmt.Errorf("parsing sandbox lists: %w", err)
	}

	s.mu.Lock()
	s.lists = lists
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current lists.
func (s *ListStore) Snapshot() UserLists {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return UserLists{
		Allowlist: append([]string(nil), s.lists.Allowlist...),
		Denylist:  append([]string(nil), s.lists.Denylist...),
	}
}

// AddAllow appends an entry to the allowlist and persists.
func (s *ListStore) AddAllow(entry string) error {
	s.mu.Lock()
	s.lists.Allowlist = appendUnique(s.lists.Allowlist, entry)
	s.mu.Unlock()
	return s.save()
}

// AddDeny appends an entry to the denylist and persists.
func (s *ListStore) AddDeny(entry string) error {
	s.mu.Lock()
	s.lists.Denylist = appendUnique(s.lists.Denylist, entry)
	s.mu.Unlock()
	return s.save()
}

func (s *ListStore) save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.lists)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding sandbox lists: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating sandbox config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing sandbox lists: %w", err)
	}
	return nil
}

func appendUnique(list []string, entry string) []string {
	for _, e := range list {
		if e == entry {
			return list
		}
	}
	return append(list, entry)
}
