package merge

import (
	"fmt"
	"strings"

	"langtable/internal/interpolation"
	"langtable/internal/parser"
	"langtable/internal/table"
	"langtable/internal/textutil"

	"github.com/rs/zerolog/log"
)

// DefaultLengthWarningMultiplier flags any value longer than the longest existing one.
const DefaultLengthWarningMultiplier = 1.0

// UnknownLanguageError reports a fragment language that the table does not know yet.
type UnknownLanguageError struct {
	Key      string
	Language string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("language %q (key %q) has not been added yet; add it before merging", e.Language, e.Key)
}

// Options configures an Engine.
type Options struct {
	// LengthWarningMultiplier scales the longest existing value to form the
	// warning threshold. Zero or negative means DefaultLengthWarningMultiplier.
	LengthWarningMultiplier float64
	// CheckPlaceholders enables placeholder comparison warnings.
	CheckPlaceholders bool
}

// Engine merges JSON fragments into translation tables.
type Engine struct {
	multiplier        float64
	checkPlaceholders bool
}

// NewEngine creates a merge engine.
func NewEngine(opts Options) *Engine {
	m := opts.LengthWarningMultiplier
	if m <= 0 {
		m = DefaultLengthWarningMultiplier
	}
	return &Engine{
		multiplier:        m,
		checkPlaceholders: opts.CheckPlaceholders,
	}
}

// Change is one value written by a merge.
type Change struct {
	Key           string
	Language      string
	OldText       string
	NewText       string
	LengthWarning bool
}

// Report summarizes a merge.
type Report struct {
	UpdatedEntries      int
	MissingKeys         int
	LengthWarnings      []string
	PlaceholderWarnings []string
	Changes             []Change
}

// Merge parses fragment and applies it to t.
//
// A fragment that does not start with '{' is wrapped in braces first, so a
// bare list of members can be pasted. Shape and language validation run over
// the whole fragment before anything is written: on error t is untouched.
// Keys absent from t are counted in MissingKeys and never created.
func (en *Engine) Merge(t *table.Table, fragment string) (*Report, error) {
	text := strings.TrimSpace(fragment)
	if !strings.HasPrefix(text, "{") {
		text = "{\n" + text + "\n}"
	}

	root, err := parser.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("merge fragment: %w", err)
	}

	rows, err := parser.Rows(root)
	if err != nil {
		return nil, fmt.Errorf("merge fragment: %w", err)
	}

	if err := validateLanguages(t, rows); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, row := range rows {
		entry, ok := t.Lookup(row.Key)
		if !ok {
			report.MissingKeys++
			log.Debug().Str("key", row.Key).Msg("Fragment key not in table, skipping")
			continue
		}

		longest := longestValue(entry)
		reference, refLang := referenceValue(entry)

		for _, p := range row.Pairs {
			newLen := textutil.Len(p.Text)
			warn := longest > 0 && float64(newLen) > float64(longest)*en.multiplier
			if warn {
				report.LengthWarnings = append(report.LengthWarnings,
					fmt.Sprintf("%s [%s]: %d vs %d", entry.Key, p.Language, newLen, longest))
			}

			if en.checkPlaceholders && refLang != "" && refLang != p.Language && p.Text != "" &&
				!interpolation.Same(reference, p.Text) {
				report.PlaceholderWarnings = append(report.PlaceholderWarnings,
					fmt.Sprintf("%s [%s]: placeholders %s vs %s", entry.Key, p.Language,
						interpolation.Describe(interpolation.Placeholders(p.Text)),
						interpolation.Describe(interpolation.Placeholders(reference))))
			}

			old, _ := entry.Get(p.Language)
			entry.Set(p.Language, p.Text)
			report.Changes = append(report.Changes, Change{
				Key:           entry.Key,
				Language:      p.Language,
				OldText:       old,
				NewText:       p.Text,
				LengthWarning: warn,
			})
		}

		report.UpdatedEntries++
	}

	log.Debug().
		Int("updated", report.UpdatedEntries).
		Int("missing", report.MissingKeys).
		Int("length_warnings", len(report.LengthWarnings)).
		Msg("Merge applied")

	return report, nil
}

// validateLanguages rejects the fragment if any nested language is outside
// the table's known language set.
func validateLanguages(t *table.Table, rows []parser.Row) error {
	known := make(map[string]bool)
	for _, lang := range t.KnownLanguages() {
		known[lang] = true
	}

	for _, row := range rows {
		for _, p := range row.Pairs {
			if !known[p.Language] {
				return &UnknownLanguageError{Key: row.Key, Language: p.Language}
			}
		}
	}
	return nil
}

// longestValue returns the rune length of the entry's longest non-empty value.
func longestValue(e *table.Entry) int {
	longest := 0
	for _, lang := range e.Languages() {
		v, _ := e.Get(lang)
		if n := textutil.Len(v); n > longest {
			longest = n
		}
	}
	return longest
}

// referenceValue returns the first non-empty value in mapping order.
func referenceValue(e *table.Entry) (string, string) {
	for _, lang := range e.Languages() {
		if v, _ := e.Get(lang); v != "" {
			return v, lang
		}
	}
	return "", ""
}
