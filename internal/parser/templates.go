package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fjglira/GoSkeptic/internal/domain"
)

// DefaultTemplateSuffix is appended to a document's full file name to find
// its companion template document.
const DefaultTemplateSuffix = ".skt.md"

// TemplateStore loads named templates from companion documents.
type TemplateStore struct {
	suffix   string
	language string
	registry ParserRegistry
}

// NewTemplateStore creates a TemplateStore. Companion files are parsed with
// the parser the registry returns for the suffix's extension.
func NewTemplateStore(suffix, language string, registry ParserRegistry) *TemplateStore {
	if suffix == "" {
		suffix = DefaultTemplateSuffix
	}
	return &TemplateStore{suffix: suffix, language: language, registry: registry}
}

// CompanionPath returns the template document path for docPath.
func (s *TemplateStore) CompanionPath(docPath string) string {
	return docPath + s.suffix
}

// IsCompanion reports whether path is itself a template document.
func (s *TemplateStore) IsCompanion(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), strings.ToLower(s.suffix))
}

// Load returns the named templates declared next to docPath. A missing
// companion file yields an empty map.
func (s *TemplateStore) Load(docPath string) (map[string]domain.Template, error) {
	path := s.CompanionPath(docPath)
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]domain.Template{}, nil
	}
	if err != nil {
		return nil, domain.NewError("template", path, 0, "failed to read template file", err)
	}

	p, err := s.registry.ParserFor(filepath.Ext(path))
	if err != nil {
		return nil, domain.NewError("template", path, 0, "no parser for template file", err)
	}

	return s.Parse(path, p.Events(content), content)
}

// Parse collects named templates from an event stream. Only blocks that
// carry an skt-<name> token contribute; a later block with the same name
// replaces an earlier one.
func (s *TemplateStore) Parse(path string, src EventSource, content []byte) (map[string]domain.Template, error) {
	templates := make(map[string]domain.Template)

	var buf []string
	collecting := false
	var directives domain.InfoDirectives
	blockLine := 0

	for {
		line := lineCount(content, src.Offset())
		ev, ok := src.Next()
		if !ok {
			break
		}
		switch ev.Kind {
		case EnterCodeBlock:
			d := Classify(ev.Info, s.language)
			if d.IsEligible {
				collecting = true
				buf = nil
				directives = d
				blockLine = line + 1
			}
		case Text:
			if collecting {
				buf = append(buf, ev.Text)
			}
		case ExitCodeBlock:
			if !collecting {
				continue
			}
			collecting = false
			if len(directives.PartOf) > 0 {
				return nil, domain.NewError("template", path, blockLine,
					fmt.Sprintf("template block cannot be part of combined test %q", directives.PartOf[0]), nil)
			}
			if directives.UsesTemplate {
				templates[directives.NamedTemplate] = domain.Template{
					Name: directives.NamedTemplate,
					Body: strings.Join(buf, ""),
				}
			}
		}
	}

	return templates, nil
}
