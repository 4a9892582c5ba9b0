package rt

import (
	"fmt"
	"strings"
)

// Part is one (template, text) pair of a doc test.
type Part struct {
	Template string
	Text     string
}

// Format substitutes text into template. The template uses Rust format
// syntax: "{}" is the single placeholder, "{{" and "}}" are literal braces.
func Format(template, text string) (string, error) {
	var b strings.Builder
	b.Grow(len(template) + len(text))
	placeholders := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{' && i+1 < len(template) && template[i+1] == '}':
			b.WriteString(text)
			placeholders++
			i++
		case c == '{' || c == '}':
			return "", fmt.Errorf("%w: unmatched %q at byte %d", ErrTemplate, c, i)
		default:
			b.WriteByte(c)
		}
	}
	if placeholders != 1 {
		return "", fmt.Errorf("%w: expected exactly one {} placeholder, found %d", ErrTemplate, placeholders)
	}
	return b.String(), nil
}

// Assemble formats every part and concatenates the results in order.
func Assemble(parts ...Part) (string, error) {
	var b strings.Builder
	for i, p := range parts {
		s, err := Format(p.Template, p.Text)
		if err != nil {
			return "", fmt.Errorf("part %d: %w", i+1, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}
