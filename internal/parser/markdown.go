package parser

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser produces events from Markdown documents using goldmark.
type MarkdownParser struct {
	md goldmark.Markdown
}

// NewMarkdownParser creates a new MarkdownParser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{md: goldmark.New()}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *MarkdownParser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// FileType returns "markdown".
func (p *MarkdownParser) FileType() string {
	return "markdown"
}

// Events walks the goldmark AST and flattens it into heading, fenced code
// block and text events. Each code block line becomes one Text event whose
// offset is the start of that line. An EnterCodeBlock offset lies on the
// opening fence line, also for blocks without content.
func (p *MarkdownParser) Events(content []byte) EventSource {
	doc := p.md.Parser().Parse(text.NewReader(content))

	var events []Event
	last := 0
	// cursor is the earliest offset the next opening fence can start at.
	cursor := 0
	emit := func(ev Event) {
		if ev.Offset < 0 {
			ev.Offset = last
		}
		last = ev.Offset
		if ev.Offset > cursor {
			cursor = ev.Offset
		}
		events = append(events, ev)
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			kind := ExitHeading
			if entering {
				kind = EnterHeading
			}
			emit(Event{Kind: kind, Level: node.Level, Offset: headingOffset(node)})

		case *ast.FencedCodeBlock:
			info := ""
			infoOffset := -1
			if node.Info != nil {
				info = string(node.Info.Segment.Value(content))
				infoOffset = node.Info.Segment.Start
			}
			if !entering {
				emit(Event{Kind: ExitCodeBlock, Info: info, Offset: -1})
				return ast.WalkContinue, nil
			}
			lines := node.Lines()
			open := infoOffset
			if open < 0 {
				if lines.Len() > 0 {
					// The newline ending the fence line.
					open = bytes.LastIndexByte(content[:lines.At(0).Start], '\n')
				} else {
					open = nextFence(content, cursor)
				}
			}
			emit(Event{Kind: EnterCodeBlock, Info: info, Offset: open})

			body := lineEnd(content, last)
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				emit(Event{Kind: Text, Text: string(line.Value(content)), Offset: line.Start})
				body = line.Stop
			}
			if closing := nextFence(content, body); closing >= 0 {
				cursor = lineEnd(content, closing)
			}

		case *ast.Text:
			if entering {
				emit(Event{Kind: Text, Text: string(node.Segment.Value(content)), Offset: node.Segment.Start})
			}
		}
		return ast.WalkContinue, nil
	})

	return NewSliceSource(events, len(content))
}

// headingOffset finds a byte position for a heading node, or -1.
func headingOffset(h *ast.Heading) int {
	if h.Lines().Len() > 0 {
		return h.Lines().At(0).Start
	}
	if first, ok := h.FirstChild().(*ast.Text); ok {
		return first.Segment.Start
	}
	return -1
}

// nextFence returns the offset of the first line at or after from that
// starts with a code fence, or -1.
func nextFence(content []byte, from int) int {
	for from >= 0 && from < len(content) {
		end := lineEnd(content, from)
		t := bytes.TrimLeft(content[from:end], " \t>")
		if bytes.HasPrefix(t, []byte("```")) || bytes.HasPrefix(t, []byte("~~~")) {
			return from
		}
		from = end
	}
	return -1
}

// lineEnd returns the offset just past the line holding offset.
func lineEnd(content []byte, offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(content) {
		return len(content)
	}
	if i := bytes.IndexByte(content[offset:], '\n'); i >= 0 {
		return offset + i + 1
	}
	return len(content)
}
