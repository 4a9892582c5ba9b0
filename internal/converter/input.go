package converter

import (
	"strings"
	"unicode"
)

// CleanOmittedLine reveals a line hidden from rendered documentation.
// Leading whitespace followed by "# " is removed; a line holding only "#"
// keeps just its line ending. Every other line is returned unchanged.
func CleanOmittedLine(line string) string {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	switch {
	case strings.HasPrefix(trimmed, "# "):
		return trimmed[2:]
	case strings.TrimSpace(line) == "#":
		return trimmed[1:]
	default:
		return line
	}
}

// CreateTestInput joins the content chunks of a block after cleaning each.
func CreateTestInput(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(CleanOmittedLine(l))
	}
	return b.String()
}
