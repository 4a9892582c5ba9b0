package converter

import (
	"fmt"

	"github.com/fjglira/GoSkeptic/internal/domain"
	"github.com/fjglira/GoSkeptic/internal/naming"
)

// Converter turns a parsed document and its companion templates into tests.
type Converter interface {
	Convert(doc *domain.ParsedDocument, templates map[string]domain.Template) (*domain.DocTest, error)
}

// DefaultConverter implements Converter.
type DefaultConverter struct{}

// NewConverter creates a new DefaultConverter.
func NewConverter() *DefaultConverter {
	return &DefaultConverter{}
}

// Convert assembles the tests of doc. Ordinary tests come first in document
// order, followed by combined tests in the order their group was first seen.
// A legacy template replaces the identity template of every ordinary test
// that names no template, wherever in the document it was declared.
func (c *DefaultConverter) Convert(doc *domain.ParsedDocument, templates map[string]domain.Template) (*domain.DocTest, error) {
	if templates == nil {
		templates = map[string]domain.Template{}
	}
	for _, name := range sortedNames(templates) {
		if err := ValidateTemplate(templates[name].Body); err != nil {
			return nil, domain.NewErrorWithSuggestion("convert", doc.FilePath, 0,
				fmt.Sprintf("template %q is malformed", name),
				"a template needs exactly one {} placeholder; write literal braces as {{ and }}", err)
		}
	}
	if doc.HasLegacyTemplate {
		if err := ValidateTemplate(doc.LegacyTemplate); err != nil {
			return nil, domain.NewErrorWithSuggestion("convert", doc.FilePath, 0,
				"legacy skeptic-template is malformed",
				"a template needs exactly one {} placeholder; write literal braces as {{ and }}", err)
		}
	}

	result := &domain.DocTest{
		Path:              doc.FilePath,
		LegacyTemplate:    doc.LegacyTemplate,
		HasLegacyTemplate: doc.HasLegacyTemplate,
		Templates:         templates,
	}

	var (
		groupOrder  []string
		groups      = make(map[string]*domain.Test)
		untemplated []int
	)

	for _, block := range doc.Blocks {
		d := block.Directives

		tmpl := domain.IdentityTemplate
		if d.UsesTemplate {
			t, ok := templates[d.NamedTemplate]
			if !ok {
				return nil, domain.NewErrorWithSuggestion("convert", doc.FilePath, block.StartLine,
					fmt.Sprintf("template %q not found for document %s", d.NamedTemplate, doc.FilePath),
					fmt.Sprintf("declare a block tagged skt-%s in %s", d.NamedTemplate, doc.FilePath+".skt.md"), nil)
			}
			tmpl = t.Body
		}
		part := domain.Part{Template: tmpl, Text: CreateTestInput(block.Content)}

		if len(d.PartOf) > 0 {
			for _, name := range d.PartOf {
				key := naming.CombinedTestName(doc.FileStem, name)
				g, ok := groups[key]
				if !ok {
					g = &domain.Test{
						Name:       key,
						SourceFile: doc.FilePath,
						LineNumber: block.StartLine,
						Combined:   true,
					}
					groups[key] = g
					groupOrder = append(groupOrder, key)
				}
				g.Parts = append(g.Parts, part)
				g.NoRun = g.NoRun || d.NoRun
				g.ShouldPanic = g.ShouldPanic || d.ShouldPanic
			}
			continue
		}

		if !d.UsesTemplate {
			untemplated = append(untemplated, len(result.Tests))
		}
		result.Tests = append(result.Tests, domain.Test{
			Name:        naming.TestName(doc.FileStem, block.Section, block.HasSection, block.StartLine),
			SourceFile:  doc.FilePath,
			LineNumber:  block.StartLine,
			Parts:       []domain.Part{part},
			Ignore:      d.Ignore,
			NoRun:       d.NoRun,
			ShouldPanic: d.ShouldPanic,
		})
	}

	if doc.HasLegacyTemplate {
		for _, i := range untemplated {
			result.Tests[i].Parts[0].Template = doc.LegacyTemplate
		}
	}

	for _, key := range groupOrder {
		result.Tests = append(result.Tests, *groups[key])
	}

	return result, nil
}
