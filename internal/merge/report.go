package merge

import (
	"fmt"
	"strings"
)

// DefaultMaxReportedWarnings caps the warnings listed by Format.
const DefaultMaxReportedWarnings = 10

// Format renders the report as user feedback. At most maxWarnings length
// warnings are listed; the remainder is summarized in one line.
func (r *Report) Format(maxWarnings int) string {
	if maxWarnings <= 0 {
		maxWarnings = DefaultMaxReportedWarnings
	}

	var sb strings.Builder
	sb.WriteString("Merge complete.\n\n")
	fmt.Fprintf(&sb, "Updated entries: %d\n", r.UpdatedEntries)
	fmt.Fprintf(&sb, "Unknown keys ignored: %d\n", r.MissingKeys)

	if len(r.LengthWarnings) > 0 {
		sb.WriteString("\nPossible length issues detected:\n\n")
		writeCapped(&sb, r.LengthWarnings, maxWarnings)
		sb.WriteString("\nYou may want to check these in-game.\n")
	}

	if len(r.PlaceholderWarnings) > 0 {
		sb.WriteString("\nPlaceholder mismatches:\n\n")
		writeCapped(&sb, r.PlaceholderWarnings, maxWarnings)
	}

	return sb.String()
}

func writeCapped(sb *strings.Builder, lines []string, max int) {
	for i, w := range lines {
		if i == max {
			fmt.Fprintf(sb, "• …and %d more\n", len(lines)-max)
			break
		}
		sb.WriteString("• " + w + "\n")
	}
}
