package parser

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/fjglira/GoSkeptic/internal/domain"
	"github.com/fjglira/GoSkeptic/internal/naming"
)

type bufferState int

const (
	stateIdle bufferState = iota
	stateHeader
	stateCode
)

// Extractor collects candidate code blocks from an event stream.
type Extractor struct {
	language string
}

// NewExtractor creates an Extractor treating language as the test tag.
func NewExtractor(language string) *Extractor {
	if language == "" {
		language = DefaultLanguage
	}
	return &Extractor{language: language}
}

// Parse extracts every candidate block of a document using p for events.
func (x *Extractor) Parse(filePath string, content []byte, p Parser) (*domain.ParsedDocument, error) {
	doc, err := x.Extract(p.Events(content), content)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, errLine(err), err.Error(),
			"remove sk-part-of- from ignored blocks and skeptic-template blocks", nil)
	}
	doc.FilePath = filePath
	doc.FileType = p.FileType()
	doc.FileStem = naming.Sanitize(fileStem(filePath))
	return doc, nil
}

// Extract runs the buffer state machine over src. Headings of level 2 or
// less set the current section; eligible code blocks are buffered and,
// on exit, either become the legacy template or are appended as blocks.
func (x *Extractor) Extract(src EventSource, content []byte) (*domain.ParsedDocument, error) {
	doc := &domain.ParsedDocument{}

	state := stateIdle
	var header strings.Builder
	var code []string
	var directives domain.InfoDirectives
	var info string
	section, hasSection := "", false
	headingLine := 0
	blockStart := 0

	for {
		// Position must be read before the event is consumed.
		offset := src.Offset()
		line := lineCount(content, offset)
		ev, ok := src.Next()
		if !ok {
			break
		}

		switch ev.Kind {
		case EnterHeading:
			if ev.Level <= 2 {
				state = stateHeader
				header.Reset()
				headingLine = line + 1
			}

		case ExitHeading:
			if ev.Level <= 2 && state == stateHeader {
				text := header.String()
				section, hasSection = naming.Sanitize(text), true
				doc.Headings = append(doc.Headings, domain.Heading{Level: ev.Level, Text: text, Line: headingLine})
				state = stateIdle
			}

		case EnterCodeBlock:
			d := Classify(ev.Info, x.language)
			if d.IsEligible {
				state = stateCode
				code = nil
				directives = d
				info = ev.Info
				// The opening fence line; content, if any, overrides it.
				blockStart = line + 1
			}

		case Text:
			switch state {
			case stateCode:
				if len(code) == 0 {
					blockStart = line
				}
				code = append(code, ev.Text)
			case stateHeader:
				header.WriteString(ev.Text)
			}

		case ExitCodeBlock:
			if state != stateCode {
				continue
			}
			state = stateIdle
			if err := ValidateDirectives(directives); err != nil {
				return nil, &lineError{line: blockStart, err: err}
			}
			if directives.IsLegacyTemplate {
				doc.LegacyTemplate = strings.Join(code, "")
				doc.HasLegacyTemplate = true
				continue
			}
			doc.Blocks = append(doc.Blocks, domain.CodeBlock{
				Content:    code,
				StartLine:  blockStart,
				Section:    section,
				HasSection: hasSection,
				Info:       info,
				Directives: directives,
			})
		}
	}

	return doc, nil
}

type lineError struct {
	line int
	err  error
}

func (e *lineError) Error() string { return e.err.Error() }
func (e *lineError) Unwrap() error { return e.err }

func errLine(err error) int {
	if le, ok := err.(*lineError); ok {
		return le.line
	}
	return 0
}

// lineCount counts newline bytes before offset.
func lineCount(content []byte, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}
	return bytes.Count(content[:offset], []byte("\n"))
}

// fileStem returns the base name without its last extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
