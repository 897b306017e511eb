package table

import (
	"errors"
	"reflect"
	"testing"
)

func newTestTable() *Table {
	t := New("en", "fr")
	a := NewEntry("apple")
	a.Set("en", "Apple")
	a.Set("fr", "Pomme")
	t.Put(a)
	b := NewEntry("banana")
	b.Set("en", "Banana")
	t.Put(b)
	return t
}

func entryKeys(t *Table) []string {
	var out []string
	for _, e := range t.Entries() {
		out = append(out, e.Key)
	}
	return out
}

func TestEntry_SetKeepsFirstPosition(t *testing.T) {
	e := NewEntry("k")
	e.Set("en", "1")
	e.Set("fr", "2")
	e.Set("en", "3")

	if got := e.Languages(); !reflect.DeepEqual(got, []string{"en", "fr"}) {
		t.Errorf("Languages = %v", got)
	}
	if v, _ := e.Get("en"); v != "3" {
		t.Errorf("en = %q, want 3", v)
	}
	if e.Len() != 2 {
		t.Errorf("Len = %d, want 2", e.Len())
	}
}

func TestNew_DedupesLanguageOrder(t *testing.T) {
	tbl := New("en", "fr", "en")
	if got := tbl.LanguageOrder(); !reflect.DeepEqual(got, []string{"en", "fr"}) {
		t.Errorf("LanguageOrder = %v", got)
	}
}

func TestPut_ReplacesAndMoves(t *testing.T) {
	tbl := newTestTable()
	c := NewEntry("cherry")
	tbl.Put(c)

	replacement := NewEntry("apple")
	replacement.Set("en", "Green apple")
	tbl.Put(replacement)

	if got := entryKeys(tbl); !reflect.DeepEqual(got, []string{"banana", "cherry", "apple"}) {
		t.Errorf("keys = %v", got)
	}
	for i, k := range []string{"banana", "cherry", "apple"} {
		if idx := tbl.Index(k); idx != i {
			t.Errorf("Index(%q) = %d, want %d", k, idx, i)
		}
	}
	e, _ := tbl.Lookup("apple")
	if _, ok := e.Get("fr"); ok {
		t.Error("replaced entry should not keep old languages")
	}
}

func TestAddEntry(t *testing.T) {
	tbl := newTestTable()

	e, err := tbl.AddEntry("cherry")
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if got := e.Languages(); !reflect.DeepEqual(got, []string{"en", "fr"}) {
		t.Errorf("new entry languages = %v", got)
	}
	if tbl.Index("cherry") != 2 {
		t.Errorf("cherry index = %d, want 2", tbl.Index("cherry"))
	}

	if _, err := tbl.AddEntry("apple"); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate AddEntry error = %v", err)
	}
	if _, err := tbl.AddEntry("  "); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("empty AddEntry error = %v", err)
	}
}

func TestAddLanguage(t *testing.T) {
	tbl := newTestTable()

	added, err := tbl.AddLanguage("  DE ")
	if err != nil || !added {
		t.Fatalf("AddLanguage = %v, %v", added, err)
	}
	if got := tbl.LanguageOrder(); !reflect.DeepEqual(got, []string{"en", "fr", "de"}) {
		t.Errorf("LanguageOrder = %v", got)
	}
	for _, e := range tbl.Entries() {
		v, ok := e.Get("de")
		if !ok || v != "" {
			t.Errorf("%s.de = %q (present %v), want back-filled empty", e.Key, v, ok)
		}
	}

	// banana lacked fr; adding a new language must not fill unrelated gaps.
	b, _ := tbl.Lookup("banana")
	if _, ok := b.Get("fr"); ok {
		t.Error("banana.fr should stay absent")
	}

	added, err = tbl.AddLanguage("fr")
	if err != nil || added {
		t.Errorf("re-adding fr = %v, %v; want false, nil", added, err)
	}

	if _, err := tbl.AddLanguage(" "); !errors.Is(err, ErrEmptyLanguage) {
		t.Errorf("blank AddLanguage error = %v", err)
	}
}

func TestKnownLanguages(t *testing.T) {
	tbl := New("en")
	e := NewEntry("k")
	e.Set("ja", "x")
	e.Set("en", "y")
	tbl.Put(e)

	if got := tbl.KnownLanguages(); !reflect.DeepEqual(got, []string{"en", "ja"}) {
		t.Errorf("KnownLanguages = %v", got)
	}
}

func TestStats(t *testing.T) {
	tbl := New("en", "fr")
	for _, row := range []struct{ key, en, fr string }{
		{"a", "A", "A"},
		{"b", "B", "  "},
		{"c", "", ""},
	} {
		e := NewEntry(row.key)
		e.Set("en", row.en)
		e.Set("fr", row.fr)
		tbl.Put(e)
	}
	d := NewEntry("d")
	d.Set("en", "D")
	tbl.Put(d)

	st := tbl.Stats()
	if st.Entries != 4 {
		t.Errorf("Entries = %d", st.Entries)
	}
	if st.MissingAny != 3 {
		t.Errorf("MissingAny = %d, want 3", st.MissingAny)
	}
	want := map[string]int{"en": 1, "fr": 3}
	if !reflect.DeepEqual(st.MissingPerLanguage, want) {
		t.Errorf("MissingPerLanguage = %v, want %v", st.MissingPerLanguage, want)
	}
}
