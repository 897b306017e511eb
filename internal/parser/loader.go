package parser

import (
	"langtable/internal/table"
)

// Pair is one language/text member of an entry object.
type Pair struct {
	Language string
	Text     string
}

// Row is one top-level member of a translation document, in document order.
type Row struct {
	Key   string
	Pairs []Pair
}

// Rows validates that root is an object of objects whose values are strings
// or null, and flattens it. Null becomes "". Duplicate names are preserved.
func Rows(root *Value) ([]Row, error) {
	if root.Kind != KindObject {
		return nil, &ShapeError{Reason: "is " + root.Kind.String() + ", want object"}
	}

	rows := make([]Row, 0, len(root.Members))
	for _, m := range root.Members {
		if m.Value.Kind != KindObject {
			return nil, &ShapeError{
				Path:   memberPath(m.Name),
				Reason: "value is " + m.Value.Kind.String() + ", want object",
			}
		}

		row := Row{Key: m.Name, Pairs: make([]Pair, 0, len(m.Value.Members))}
		for _, lm := range m.Value.Members {
			switch lm.Value.Kind {
			case KindString:
				row.Pairs = append(row.Pairs, Pair{Language: lm.Name, Text: lm.Value.Str})
			case KindNull:
				row.Pairs = append(row.Pairs, Pair{Language: lm.Name})
			default:
				return nil, &ShapeError{
					Path:   memberPath(m.Name, lm.Name),
					Reason: "value is " + lm.Value.Kind.String() + ", want string or null",
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Load builds a table from comment-bearing file text.
//
// The language order is taken from the first member only. A key that
// appears more than once keeps its last occurrence, at that occurrence's
// position.
func Load(raw string) (*table.Table, error) {
	root, err := Decode(StripComments(raw))
	if err != nil {
		return nil, err
	}

	rows, err := Rows(root)
	if err != nil {
		return nil, err
	}

	var t *table.Table
	for i, row := range rows {
		if i == 0 {
			langs := make([]string, 0, len(row.Pairs))
			for _, p := range row.Pairs {
				langs = append(langs, p.Language)
			}
			t = table.New(langs...)
		}

		e := table.NewEntry(row.Key)
		for _, p := range row.Pairs {
			e.Set(p.Language, p.Text)
		}
		t.Put(e)
	}

	if t == nil {
		t = table.New()
	}
	return t, nil
}
