package table

import "strings"

// Stats summarizes translation coverage across the known languages.
type Stats struct {
	Entries            int
	MissingAny         int
	Languages          []string
	MissingPerLanguage map[string]int
}

// Stats counts entries whose value for a known language is absent or blank.
func (t *Table) Stats() Stats {
	langs := t.KnownLanguages()
	s := Stats{
		Entries:            len(t.entries),
		Languages:          langs,
		MissingPerLanguage: make(map[string]int, len(langs)),
	}
	for _, lang := range langs {
		s.MissingPerLanguage[lang] = 0
	}

	for _, e := range t.entries {
		missing := false
		for _, lang := range langs {
			v, ok := e.values[lang]
			if !ok || strings.TrimSpace(v) == "" {
				s.MissingPerLanguage[lang]++
				missing = true
			}
		}
		if missing {
			s.MissingAny++
		}
	}
	return s
}
