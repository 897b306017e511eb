package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyKey      = errors.New("entry key is empty")
	ErrDuplicateKey  = errors.New("entry key already exists")
	ErrEmptyLanguage = errors.New("language code is empty")
)

// Entry is one translation key with its per-language texts.
// Language order is the order in which languages were first set.
type Entry struct {
	Key    string
	langs  []string
	values map[string]string
}

// NewEntry creates an entry with an empty mapping.
func NewEntry(key string) *Entry {
	return &Entry{
		Key:    key,
		values: make(map[string]string),
	}
}

// Get returns the text for a language and whether the language is present.
func (e *Entry) Get(lang string) (string, bool) {
	v, ok := e.values[lang]
	return v, ok
}

// Set overwrites the text for lang, appending lang to the mapping order if new.
func (e *Entry) Set(lang, text string) {
	if _, ok := e.values[lang]; !ok {
		e.langs = append(e.langs, lang)
	}
	e.values[lang] = text
}

// Languages returns the entry's languages in mapping order.
func (e *Entry) Languages() []string {
	out := make([]string, len(e.langs))
	copy(out, e.langs)
	return out
}

// Len returns the number of languages in the mapping.
func (e *Entry) Len() int { return len(e.langs) }

// Table is the ordered in-memory translation table.
//
// It is not safe for concurrent use; see the session package for a guarded owner.
type Table struct {
	entries       []*Entry
	index         map[string]int // key → position in entries
	languageOrder []string
}

// New creates an empty table seeded with the given language order.
func New(languageOrder ...string) *Table {
	t := &Table{index: make(map[string]int)}
	for _, lang := range languageOrder {
		if !contains(t.languageOrder, lang) {
			t.languageOrder = append(t.languageOrder, lang)
		}
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// At returns the entry at position i.
func (t *Table) At(i int) *Entry { return t.entries[i] }

// Entries returns the entries in table order. The slice is a copy; the entries are not.
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup finds an entry by key.
func (t *Table) Lookup(key string) (*Entry, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// Index returns the position of key, or -1.
func (t *Table) Index(key string) int {
	if i, ok := t.index[key]; ok {
		return i
	}
	return -1
}

// LanguageOrder returns the authoritative language column order.
func (t *Table) LanguageOrder() []string {
	out := make([]string, len(t.languageOrder))
	copy(out, t.languageOrder)
	return out
}

// KnownLanguages returns LanguageOrder followed by any other language
// present in an entry, in first-seen order.
func (t *Table) KnownLanguages() []string {
	seen := make(map[string]bool, len(t.languageOrder))
	known := make([]string, 0, len(t.languageOrder))
	for _, lang := range t.languageOrder {
		seen[lang] = true
		known = append(known, lang)
	}
	for _, e := range t.entries {
		for _, lang := range e.langs {
			if !seen[lang] {
				seen[lang] = true
				known = append(known, lang)
			}
		}
	}
	return known
}

// Put inserts e. If an entry with the same key exists it is removed first,
// so e takes the later position as well as the later content.
func (t *Table) Put(e *Entry) {
	if i, ok := t.index[e.Key]; ok {
		t.entries = append(t.entries[:i], t.entries[i+1:]...)
		t.reindex(i)
	}
	t.index[e.Key] = len(t.entries)
	t.entries = append(t.entries, e)
}

// AddEntry appends a new entry back-filled with "" for every language in LanguageOrder.
func (t *Table) AddEntry(key string) (*Entry, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrEmptyKey
	}
	if _, ok := t.index[key]; ok {
		return nil, fmt.Errorf("add entry %q: %w", key, ErrDuplicateKey)
	}

	e := NewEntry(key)
	for _, lang := range t.languageOrder {
		e.Set(lang, "")
	}
	t.Put(e)
	return e, nil
}

// AddLanguage normalizes code (trimmed, lowercased) and appends it to the
// language order, back-filling "" into every entry that lacks it.
// It reports false when the language was already part of the order.
func (t *Table) AddLanguage(code string) (bool, error) {
	lang := strings.ToLower(strings.TrimSpace(code))
	if lang == "" {
		return false, ErrEmptyLanguage
	}
	if contains(t.languageOrder, lang) {
		return false, nil
	}

	t.languageOrder = append(t.languageOrder, lang)
	for _, e := range t.entries {
		if _, ok := e.values[lang]; !ok {
			e.Set(lang, "")
		}
	}
	return true, nil
}

// reindex refreshes index positions from position `from` onwards.
func (t *Table) reindex(from int) {
	for i := from; i < len(t.entries); i++ {
		t.index[t.entries[i].Key] = i
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
