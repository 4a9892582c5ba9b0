package parser

import (
	"bytes"
	"regexp"
	"strings"
)

// AsciiDocParser produces events from AsciiDoc documents.
// Only [source,...] listing blocks are reported as code blocks.
type AsciiDocParser struct{}

// NewAsciiDocParser creates a new AsciiDocParser.
func NewAsciiDocParser() *AsciiDocParser {
	return &AsciiDocParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *AsciiDocParser) SupportedExtensions() []string {
	return []string{".adoc", ".asciidoc"}
}

// FileType returns "asciidoc".
func (p *AsciiDocParser) FileType() string {
	return "asciidoc"
}

var (
	// Matches [source,rust,ignore]; the capture is the info string
	asciidocSourceRe = regexp.MustCompile(`^\[source(?:,([^\]]*))?\]\s*$`)
	// Matches ---- delimiter
	asciidocDelimRe = regexp.MustCompile(`^----+\s*$`)
	// Matches = Title, == Section, === Subsection, etc.
	asciidocHeadingRe = regexp.MustCompile(`^(={1,6})\s+(.+?)\s*$`)
)

type asciidocLine struct {
	text   string // without the trailing newline
	raw    string // with the trailing newline, if any
	offset int
}

// Events scans the document line by line. "=" and "==" headings map to
// levels 0 and 1, "===" to level 2, mirroring Markdown's # and ##.
func (p *AsciiDocParser) Events(content []byte) EventSource {
	lines := splitLines(content)

	var events []Event
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := asciidocHeadingRe.FindStringSubmatch(line.text); m != nil {
			level := len(m[1]) - 1
			events = append(events,
				Event{Kind: EnterHeading, Level: level, Offset: line.offset},
				Event{Kind: Text, Text: m[2], Offset: line.offset + len(m[1]) + 1},
				Event{Kind: ExitHeading, Level: level, Offset: line.offset + len(line.text)},
			)
			continue
		}

		m := asciidocSourceRe.FindStringSubmatch(line.text)
		if m == nil {
			continue
		}
		// Expect ---- delimiter on next line
		if i+1 >= len(lines) || !asciidocDelimRe.MatchString(lines[i+1].text) {
			continue
		}
		info := strings.TrimSpace(m[1])
		delim := lines[i+1]
		i += 2

		events = append(events, Event{Kind: EnterCodeBlock, Info: info, Offset: delim.offset})
		for i < len(lines) && !asciidocDelimRe.MatchString(lines[i].text) {
			events = append(events, Event{Kind: Text, Text: lines[i].raw, Offset: lines[i].offset})
			i++
		}
		end := len(content)
		if i < len(lines) {
			end = lines[i].offset
		}
		events = append(events, Event{Kind: ExitCodeBlock, Info: info, Offset: end})
	}

	return NewSliceSource(events, len(content))
}

// splitLines splits content into lines, keeping each line's byte offset.
func splitLines(content []byte) []asciidocLine {
	var lines []asciidocLine
	offset := 0
	for offset < len(content) {
		idx := bytes.IndexByte(content[offset:], '\n')
		var raw string
		if idx < 0 {
			raw = string(content[offset:])
		} else {
			raw = string(content[offset : offset+idx+1])
		}
		lines = append(lines, asciidocLine{
			text:   strings.TrimRight(raw, "\r\n"),
			raw:    raw,
			offset: offset,
		})
		offset += len(raw)
	}
	return lines
}
