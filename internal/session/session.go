// Package session owns one translation table on behalf of a host and
// serializes access to it: every mutation takes the write lock, reads
// share the read lock.
package session

import (
	"errors"
	"fmt"
	"sync"

	"langtable/internal/merge"
	"langtable/internal/parser"
	"langtable/internal/search"
	"langtable/internal/table"
	"langtable/internal/textutil"

	"github.com/rs/zerolog/log"
)

// ErrNoTable is returned by operations that need a loaded table.
var ErrNoTable = errors.New("no translation table loaded")

// Session guards a single table, its file path and its search cursor.
type Session struct {
	mu     sync.RWMutex
	table  *table.Table
	path   string
	engine *merge.Engine
	nav    *search.Navigator
}

// New creates an empty session using engine for merges.
func New(engine *merge.Engine) *Session {
	return &Session{
		engine: engine,
		nav:    search.NewNavigator(),
	}
}

// Open loads path and replaces the current table wholesale.
// On error the previous table is kept.
func (s *Session) Open(path string) error {
	t, err := parser.LoadFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t
	s.path = path
	s.nav.Reset()

	log.Info().Str("path", path).Int("entries", t.Len()).Msg("Opened translation file")
	return nil
}

// LoadText replaces the current table with one built from raw file text.
func (s *Session) LoadText(raw string) error {
	t, err := parser.Load(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t
	s.path = ""
	s.nav.Reset()
	return nil
}

// Save writes the table to path, or to the path it was opened from when path is empty.
func (s *Session) Save(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return ErrNoTable
	}
	if path == "" {
		path = s.path
	}
	if path == "" {
		return errors.New("save: no target path")
	}
	return parser.SaveFile(s.table, path)
}

// Path returns the file the table was opened from, if any.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Merge applies a fragment to the table.
func (s *Session) Merge(fragment string) (*merge.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return nil, ErrNoTable
	}
	return s.engine.Merge(s.table, fragment)
}

// AddLanguage appends a language column to the table.
func (s *Session) AddLanguage(code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return false, ErrNoTable
	}
	return s.table.AddLanguage(code)
}

// AddEntry appends a new key to the table.
func (s *Session) AddEntry(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return ErrNoTable
	}
	_, err := s.table.AddEntry(key)
	return err
}

// Search advances the search cursor and returns the matching key.
func (s *Session) Search(query string) (int, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return -1, "", false
	}
	idx, ok := s.nav.Next(s.table, query)
	if !ok {
		log.Debug().Str("query", textutil.Truncate(query, 40)).Msg("No match")
		return -1, "", false
	}
	return idx, s.table.At(idx).Key, true
}

// Serialize renders the whole table.
func (s *Session) Serialize() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return "", ErrNoTable
	}
	return parser.Serialize(s.table), nil
}

// Extract renders the entries with the given keys, in table order, as a
// fragment that Merge accepts. Unknown keys are reported as an error.
func (s *Session) Extract(keys []string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return "", ErrNoTable
	}

	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := s.table.Lookup(k); !ok {
			return "", fmt.Errorf("extract: key %q not found", k)
		}
		want[k] = true
	}

	var selected []*table.Entry
	for _, e := range s.table.Entries() {
		if want[e.Key] {
			selected = append(selected, e)
		}
	}
	return parser.SerializeEntries(selected), nil
}

// Stats returns coverage statistics for the table.
func (s *Session) Stats() (table.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return table.Stats{}, ErrNoTable
	}
	return s.table.Stats(), nil
}

// View calls fn with the table under the read lock. fn must not retain or mutate it.
func (s *Session) View(fn func(t *table.Table) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return ErrNoTable
	}
	return fn(s.table)
}
