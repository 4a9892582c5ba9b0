package parser

import (
	"fmt"
	"strings"
	"sync"
)

// Parser turns document text into a stream of markup events.
type Parser interface {
	Events(content []byte) EventSource
	FileType() string
	SupportedExtensions() []string
}

// ParserRegistry maps file extensions to parsers.
type ParserRegistry interface {
	Register(parser Parser)
	ParserFor(extension string) (Parser, error)
	Supports(extension string) bool
}

// DefaultRegistry is a thread-safe parser registry with fallback support.
type DefaultRegistry struct {
	mu       sync.RWMutex
	parsers  map[string]Parser
	fallback Parser
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		parsers: make(map[string]Parser),
	}
}

// Register adds a parser to the registry for each of its supported extensions.
// Extensions are matched case-insensitively.
func (r *DefaultRegistry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range p.SupportedExtensions() {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		r.parsers[ext] = p
	}
}

// SetFallback sets the fallback parser for unregistered extensions.
func (r *DefaultRegistry) SetFallback(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = p
}

// ParserFor returns the parser registered for the given file extension.
// If no parser is found, it returns the fallback parser if set.
func (r *DefaultRegistry) ParserFor(extension string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	if p, ok := r.parsers[ext]; ok {
		return p, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no parser registered for extension %q", extension)
}

// Supports reports whether a parser is registered for extension itself,
// ignoring the fallback.
func (r *DefaultRegistry) Supports(extension string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.parsers[strings.ToLower(strings.TrimPrefix(extension, "."))]
	return ok
}

// NewDefaultRegistry returns a registry with the Markdown and AsciiDoc
// parsers. Unknown extensions are read as Markdown.
func NewDefaultRegistry() *DefaultRegistry {
	r := NewRegistry()
	md := NewMarkdownParser()
	r.Register(md)
	r.Register(NewAsciiDocParser())
	r.SetFallback(md)
	return r
}
