// Package history persists the command lines run by the console.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultLimit is the number of entries kept when no limit is given
const DefaultLimit = 500

// Entry is one command line and its outcome
type Entry struct {
	Line      string    `json:"line"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
	// Failed is set when the command returned an error
	Failed bool `json:"failed,omitempty"`
}

// Store keeps the most recent entries, oldest first. A Store without a path
// lives in memory only.
type Store struct {
	path    string
	limit   int
	mu      sync.RWMutex
	entries []Entry
}

// New creates a store backed by path, loading existing entries
func New(path string, limit int) (*Store, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s := &Store{path: path, limit: limit}
	if path == "" {
		return s, nil
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file, or "" for an in-memory store
func (s *Store) Path() string { return s.path }

// Add appends an entry, dropping the oldest ones past the limit
func (s *Store) Add(e Entry) error {
	if strings.TrimSpace(e.Line) == "" {
		return nil
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	if over := len(s.entries) - s.limit; over > 0 {
		s.entries = slices.Delete(s.entries, 0, over)
	}
	return s.persist()
}

// Last returns up to n of the most recent entries, oldest first. A
// non-positive n returns every entry.
func (s *Store) Last(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	return slices.Clone(s.entries[len(s.entries)-n:])
}

// Search returns the entries whose line contains term, ignoring case
func (s *Store) Search(term string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term = strings.ToLower(term)
	var out []Entry
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Line), term) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes all entries
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return s.persist()
}

// load reads entries from disk
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	if over := len(entries) - s.limit; over > 0 {
		entries = entries[over:]
	}
	s.entries = entries
	return nil
}

// persist writes entries to disk
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}
