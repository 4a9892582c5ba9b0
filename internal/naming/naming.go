// Package naming turns free text into identifier fragments for generated tests.
package naming

import (
	"fmt"
	"strings"
)

// Sanitize converts text into a lowercase identifier fragment.
// Only ASCII letters are case-folded; every rune that is not an ASCII letter
// or digit becomes an underscore, then runs of underscores collapse and
// leading/trailing underscores are dropped.
// e.g. "^$@__My@#_Fun#$@" → "my_fun"
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteRune(c + ('a' - 'A'))
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}

	parts := strings.Split(b.String(), "_")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_")
}

// TestName builds the name of a non-combined test. stem and section are
// expected to be sanitized already.
func TestName(stem, section string, hasSection bool, line int) string {
	if hasSection {
		return fmt.Sprintf("%s_sect_%s_line_%d", stem, section, line)
	}
	return fmt.Sprintf("%s_line_%d", stem, line)
}

// CombinedTestName builds the name of a test assembled from an sk-part-of group.
func CombinedTestName(stem, group string) string {
	return fmt.Sprintf("%s_%s", stem, Sanitize(group))
}

// FuncName returns the Go test function name for a test name.
// The underscore keeps "go test" recognizing names that start lowercase.
func FuncName(testName string) string {
	return "Test_" + testName
}
