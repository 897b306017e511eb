package parser

import (
	"bytes"
	"encoding/json"
	"strings"

	"langtable/internal/table"
)

// Serialize renders the table in its on-disk form. The output ends with
// "}\n", carries no comments and no byte-order mark, and is stable for a
// given table.
func Serialize(t *table.Table) string {
	return SerializeEntries(t.Entries())
}

// SerializeEntries renders a subset of entries in the same layout as Serialize.
// Each entry's languages are written in that entry's own mapping order.
func SerializeEntries(entries []*table.Entry) string {
	var sb strings.Builder
	sb.WriteString("{\n")

	for i, e := range entries {
		sb.WriteString("  ")
		sb.WriteString(quote(e.Key))
		sb.WriteString(": {\n")

		langs := e.Languages()
		for j, lang := range langs {
			text, _ := e.Get(lang)
			sb.WriteString("    ")
			sb.WriteString(quote(lang))
			sb.WriteString(": ")
			sb.WriteString(quote(text))
			if j < len(langs)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}

		sb.WriteString("  }")
		if i < len(entries)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("}\n")
	return sb.String()
}

// quote JSON-encodes s without HTML escaping, leaving non-ASCII text literal.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
