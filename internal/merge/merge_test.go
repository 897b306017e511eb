package merge

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"langtable/internal/parser"
	"langtable/internal/table"
)

const base = `{
  "title": {
    "en": "0123456789",
    "fr": ""
  },
  "body": {
    "en": "",
    "fr": ""
  }
}`

func load(t *testing.T, text string) *table.Table {
	t.Helper()
	tbl, err := parser.Load(text)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tbl
}

func value(t *testing.T, tbl *table.Table, key, lang string) string {
	t.Helper()
	e, ok := tbl.Lookup(key)
	if !ok {
		t.Fatalf("key %q not found", key)
	}
	v, _ := e.Get(lang)
	return v
}

func TestMerge_UpdatesValues(t *testing.T) {
	tbl := load(t, base)
	en := NewEngine(Options{})

	report, err := en.Merge(tbl, `{"title": {"fr": "Titre"}, "body": {"en": "Body", "fr": "Corps"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if report.UpdatedEntries != 2 || report.MissingKeys != 0 {
		t.Errorf("report = %+v", report)
	}
	if got := value(t, tbl, "title", "fr"); got != "Titre" {
		t.Errorf("title.fr = %q", got)
	}
	if got := value(t, tbl, "body", "fr"); got != "Corps" {
		t.Errorf("body.fr = %q", got)
	}
	if len(report.Changes) != 3 {
		t.Errorf("changes = %d, want 3", len(report.Changes))
	}
}

func TestMerge_BareFragmentIsWrapped(t *testing.T) {
	tbl := load(t, base)
	report, err := NewEngine(Options{}).Merge(tbl, `
		"title": {"fr": "Titre"},
		"body": {"fr": "Corps"}
	`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.UpdatedEntries != 2 {
		t.Errorf("UpdatedEntries = %d, want 2", report.UpdatedEntries)
	}
}

func TestMerge_MissingKeysSkipped(t *testing.T) {
	tbl := load(t, base)
	report, err := NewEngine(Options{}).Merge(tbl, `{"nope": {"en": "x"}, "title": {"fr": "T"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.MissingKeys != 1 || report.UpdatedEntries != 1 {
		t.Errorf("report = %+v", report)
	}
	if _, ok := tbl.Lookup("nope"); ok {
		t.Error("fragment key must not create an entry")
	}
}

func TestMerge_UnknownLanguageIsAtomic(t *testing.T) {
	tbl := load(t, base)
	before := parser.Serialize(tbl)

	_, err := NewEngine(Options{}).Merge(tbl, `{"title": {"fr": "Titre"}, "body": {"de": "Text"}}`)

	var ule *UnknownLanguageError
	if !errors.As(err, &ule) {
		t.Fatalf("error = %v, want *UnknownLanguageError", err)
	}
	if ule.Language != "de" || ule.Key != "body" {
		t.Errorf("error = %+v", ule)
	}
	if after := parser.Serialize(tbl); after != before {
		t.Errorf("table changed after failed merge:\n%s", after)
	}
}

func TestMerge_LanguageFromAnyEntryIsKnown(t *testing.T) {
	tbl := load(t, `{"a": {"en": "A"}, "b": {"en": "B", "ja": "ビ"}}`)
	if _, err := NewEngine(Options{}).Merge(tbl, `{"a": {"ja": "エー"}}`); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := value(t, tbl, "a", "ja"); got != "エー" {
		t.Errorf("a.ja = %q", got)
	}
}

func TestMerge_ParseError(t *testing.T) {
	tbl := load(t, base)
	_, err := NewEngine(Options{}).Merge(tbl, `{"title": {"fr": "x"`)

	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("error = %v, want *parser.ParseError", err)
	}
}

func TestMerge_CommentsNotStripped(t *testing.T) {
	tbl := load(t, base)
	_, err := NewEngine(Options{}).Merge(tbl, "{\"title\": {\"fr\": \"x\"} // note\n}")

	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("error = %v, want *parser.ParseError", err)
	}
}

func TestMerge_ShapeErrorIsAtomic(t *testing.T) {
	tbl := load(t, base)
	before := parser.Serialize(tbl)

	_, err := NewEngine(Options{}).Merge(tbl, `{"title": {"fr": "ok"}, "body": {"fr": 3}}`)

	var se *parser.ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *parser.ShapeError", err)
	}
	if parser.Serialize(tbl) != before {
		t.Error("table changed after shape error")
	}
}

func TestMerge_LengthWarningThreshold(t *testing.T) {
	tests := []struct {
		name     string
		newText  string
		wantWarn bool
	}{
		{name: "equal length", newText: "abcdefghij", wantWarn: false},
		{name: "one longer", newText: "abcdefghijk", wantWarn: true},
		{name: "shorter", newText: "abc", wantWarn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := load(t, base)
			report, err := NewEngine(Options{}).Merge(tbl, `{"title": {"fr": "`+tt.newText+`"}}`)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}

			if got := len(report.LengthWarnings) > 0; got != tt.wantWarn {
				t.Errorf("warned = %v, want %v (%v)", got, tt.wantWarn, report.LengthWarnings)
			}
			if tt.wantWarn && report.LengthWarnings[0] != "title [fr]: 11 vs 10" {
				t.Errorf("warning = %q", report.LengthWarnings[0])
			}
			if got := value(t, tbl, "title", "fr"); got != tt.newText {
				t.Errorf("value not written despite warning: %q", got)
			}
		})
	}
}

func TestMerge_NoWarningWithoutExistingText(t *testing.T) {
	tbl := load(t, base)
	report, err := NewEngine(Options{}).Merge(tbl, `{"body": {"en": "a rather long body text"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(report.LengthWarnings) != 0 {
		t.Errorf("unexpected warnings: %v", report.LengthWarnings)
	}
}

func TestMerge_LongestComputedBeforeUpdates(t *testing.T) {
	tbl := load(t, `{"k": {"en": "abc", "fr": "", "de": ""}}`)
	report, err := NewEngine(Options{}).Merge(tbl, `{"k": {"fr": "abcdef", "de": "abcd"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []string{"k [fr]: 6 vs 3", "k [de]: 4 vs 3"}
	if !reflect.DeepEqual(report.LengthWarnings, want) {
		t.Errorf("LengthWarnings = %v, want %v", report.LengthWarnings, want)
	}
}

func TestMerge_LengthCountsCharacters(t *testing.T) {
	tbl := load(t, `{"k": {"en": "abc", "ja": ""}}`)
	report, err := NewEngine(Options{}).Merge(tbl, `{"k": {"ja": "日本語"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(report.LengthWarnings) != 0 {
		t.Errorf("3 characters should not exceed 3: %v", report.LengthWarnings)
	}
}

func TestMerge_ConfigurableMultiplier(t *testing.T) {
	tbl := load(t, base)
	report, err := NewEngine(Options{LengthWarningMultiplier: 1.5}).Merge(tbl, `{"title": {"fr": "abcdefghijklmn"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(report.LengthWarnings) != 0 {
		t.Errorf("14 <= 15 should not warn: %v", report.LengthWarnings)
	}
}

func TestMerge_EmptyFragment(t *testing.T) {
	tbl := load(t, base)
	report, err := NewEngine(Options{}).Merge(tbl, "{}")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.UpdatedEntries != 0 || report.MissingKeys != 0 || len(report.LengthWarnings) != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestMerge_KeyWithoutLanguagesCountsAsUpdated(t *testing.T) {
	tbl := load(t, base)
	before := parser.Serialize(tbl)
	report, err := NewEngine(Options{}).Merge(tbl, `{"title": {}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.UpdatedEntries != 1 {
		t.Errorf("UpdatedEntries = %d, want 1", report.UpdatedEntries)
	}
	if parser.Serialize(tbl) != before {
		t.Error("empty member should not change values")
	}
}

func TestMerge_NullValueWritesEmpty(t *testing.T) {
	tbl := load(t, `{"k": {"en": "x", "fr": "y"}}`)
	if _, err := NewEngine(Options{}).Merge(tbl, `{"k": {"fr": null}}`); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := value(t, tbl, "k", "fr"); got != "" {
		t.Errorf("k.fr = %q, want empty", got)
	}
}

func TestMerge_PlaceholderWarnings(t *testing.T) {
	tbl := load(t, `{"k": {"en": "Hello {0}, you have %d items", "fr": ""}}`)
	en := NewEngine(Options{CheckPlaceholders: true, LengthWarningMultiplier: 10})

	report, err := en.Merge(tbl, `{"k": {"fr": "Bonjour {0}"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(report.PlaceholderWarnings) != 1 {
		t.Fatalf("PlaceholderWarnings = %v", report.PlaceholderWarnings)
	}
	if !strings.Contains(report.PlaceholderWarnings[0], "k [fr]") {
		t.Errorf("warning = %q", report.PlaceholderWarnings[0])
	}

	report, err = en.Merge(tbl, `{"k": {"fr": "%d articles, bonjour {0}"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(report.PlaceholderWarnings) != 0 {
		t.Errorf("matching placeholders warned: %v", report.PlaceholderWarnings)
	}
}

func TestMerge_PlaceholdersOffByDefault(t *testing.T) {
	tbl := load(t, `{"k": {"en": "Hello {0}", "fr": ""}}`)
	report, err := NewEngine(Options{}).Merge(tbl, `{"k": {"fr": "Bonjour"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(report.PlaceholderWarnings) != 0 {
		t.Errorf("PlaceholderWarnings = %v", report.PlaceholderWarnings)
	}
}

func TestMerge_ChangesRecordOldText(t *testing.T) {
	tbl := load(t, `{"k": {"en": "old"}}`)
	report, err := NewEngine(Options{}).Merge(tbl, `{"k": {"en": "new text"}}`)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []Change{{Key: "k", Language: "en", OldText: "old", NewText: "new text", LengthWarning: true}}
	if !reflect.DeepEqual(report.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", report.Changes, want)
	}
}
