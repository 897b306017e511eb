package textutil

import "unicode/utf8"

// Len returns the character length of s, counted in runes.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
