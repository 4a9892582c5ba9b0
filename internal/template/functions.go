package template

import (
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/fjglira/GoSkeptic/internal/naming"
)

// CustomFuncMap returns the custom template functions available in templates.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"literal":   GoLiteral,
		"funcName":  naming.FuncName,
		"toLower":   strings.ToLower,
		"toUpper":   strings.ToUpper,
		"replace":   strings.ReplaceAll,
		"trimSpace": strings.TrimSpace,
		"join":      strings.Join,
		"oneLine":   OneLine,
		"indent": func(spaces int, s string) string {
			pad := strings.Repeat(" ", spaces)
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				if line != "" {
					lines[i] = pad + line
				}
			}
			return strings.Join(lines, "\n")
		},
	}
}

// OneLine replaces line breaks in s with spaces, so s fits in a line comment.
func OneLine(s string) string {
	return lineBreaks.Replace(s)
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\u2028", " ", "\u2029", " ")

// GoLiteral returns a Go string literal evaluating to s. A raw literal is
// used when s can be represented verbatim; otherwise the interpreted form
// produced by strconv.Quote.
func GoLiteral(s string) string {
	if rawSafe(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

// rawSafe reports whether s survives a raw string literal unchanged: raw
// literals cannot hold a backquote, drop carriage returns, and the compiler
// rejects NUL, BOM and invalid UTF-8 anywhere in source.
func rawSafe(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	return !strings.ContainsAny(s, "`\r\x00\uFEFF")
}
