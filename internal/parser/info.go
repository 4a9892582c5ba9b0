package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fjglira/GoSkeptic/internal/domain"
)

const (
	tokenShouldPanic    = "should_panic"
	tokenIgnore         = "ignore"
	tokenNoRun          = "no_run"
	tokenLegacyTemplate = "skeptic-template"
	prefixTemplate      = "skt-"
	prefixPartOf        = "sk-part-of-"
)

// DefaultLanguage is the language tag that marks a fenced block as a test.
const DefaultLanguage = "rust"

// Classify parses a fenced code block info string into directives.
//
// The info string is split on every rune that is not a letter, digit, '_'
// or '-'. A block is eligible when at least one recognized token is present,
// or when no unrecognized token is present at all, so bare fences count as
// candidates while "python" or "sh" blocks are skipped.
func Classify(info, language string) domain.InfoDirectives {
	if language == "" {
		language = DefaultLanguage
	}
	tokens := strings.FieldsFunc(info, func(r rune) bool {
		return !(r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsNumber(r))
	})

	var d domain.InfoDirectives
	seenRecognized := false
	seenOther := false
	for _, tok := range tokens {
		switch {
		case tok == language:
			seenRecognized = true
		case tok == tokenShouldPanic:
			d.ShouldPanic = true
			seenRecognized = true
		case tok == tokenIgnore:
			d.Ignore = true
			seenRecognized = true
		case tok == tokenNoRun:
			d.NoRun = true
			seenRecognized = true
		case tok == tokenLegacyTemplate:
			d.IsLegacyTemplate = true
			seenRecognized = true
		case strings.HasPrefix(tok, prefixPartOf):
			d.PartOf = appendUnique(d.PartOf, tok[len(prefixPartOf):])
			seenRecognized = true
		case strings.HasPrefix(tok, prefixTemplate):
			d.UsesTemplate = true
			d.NamedTemplate = tok[len(prefixTemplate):]
			seenRecognized = true
		default:
			d.OtherTags = append(d.OtherTags, tok)
			seenOther = true
		}
	}

	d.IsEligible = seenRecognized || !seenOther
	return d
}

// ValidateDirectives rejects combinations that cannot be assembled: a block
// taking part in a combined test can be neither ignored nor a legacy template.
func ValidateDirectives(d domain.InfoDirectives) error {
	if len(d.PartOf) == 0 {
		return nil
	}
	group := d.PartOf[0]
	if d.IsLegacyTemplate {
		return fmt.Errorf("block in combined test %q cannot also be a %s", group, tokenLegacyTemplate)
	}
	if d.Ignore {
		return fmt.Errorf("block in combined test %q cannot be marked %s", group, tokenIgnore)
	}
	return nil
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
