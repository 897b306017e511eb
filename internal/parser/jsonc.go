package parser

import "strings"

// StripComments removes // line comments that appear outside string literals.
// Each comment is replaced by a single newline so the output keeps its line
// structure. Block comments are not recognized.
func StripComments(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inString := false
	escapeNext := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if escapeNext {
			sb.WriteByte(ch)
			escapeNext = false
			continue
		}

		if ch == '\\' {
			sb.WriteByte(ch)
			escapeNext = true
			continue
		}

		if ch == '"' {
			sb.WriteByte(ch)
			inString = !inString
			continue
		}

		if !inString && ch == '/' && i+1 < len(text) && text[i+1] == '/' {
			for i < len(text) && text[i] != '\n' {
				i++
			}
			sb.WriteByte('\n')
			continue
		}

		sb.WriteByte(ch)
	}

	return sb.String()
}
