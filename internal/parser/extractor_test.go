package parser_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoSkeptic/internal/domain"
	"github.com/fjglira/GoSkeptic/internal/parser"
)

var _ = Describe("Extractor", func() {
	var (
		x  *parser.Extractor
		md *parser.MarkdownParser
	)

	BeforeEach(func() {
		x = parser.NewExtractor("rust")
		md = parser.NewMarkdownParser()
	})

	parseFile := func(name string) *domain.ParsedDocument {
		path := filepath.Join("..", "..", "testdata", "markdown", name)
		content, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		doc, err := x.Parse(path, content, md)
		Expect(err).ToNot(HaveOccurred())
		return doc
	}

	startLines := func(doc *domain.ParsedDocument) []int {
		var lines []int
		for _, b := range doc.Blocks {
			lines = append(lines, b.StartLine)
		}
		return lines
	}

	It("should number blocks by the line preceding their first content line", func() {
		doc := parseFile("should-panic-test.md")
		Expect(startLines(doc)).To(Equal([]int{3, 11}))
		Expect(doc.Blocks[0].Directives.ShouldPanic).To(BeTrue())
		Expect(doc.Blocks[1].Directives.NoRun).To(BeTrue())
	})

	It("should track sections per heading", func() {
		doc := parseFile("section-names.md")
		Expect(startLines(doc)).To(Equal([]int{3, 12, 21}))
		Expect(doc.Blocks[0].Section).To(Equal("test_case_names_with_weird_spacing_are_generated_without_error"))
		Expect(doc.Blocks[1].Section).To(Equal("test_cases_with_non_alphanumeric_characters_23_characters_are_generated_correctly_22"))
		Expect(doc.Blocks[2].Section).To(Equal("test_cases_with_non_ascii_characters_are_generated_correctly"))
		for _, b := range doc.Blocks {
			Expect(b.HasSection).To(BeTrue())
		}
	})

	It("should set the sanitized file stem", func() {
		doc := parseFile("should-panic-test.md")
		Expect(doc.FileStem).To(Equal("should_panic_test"))
		Expect(doc.FileType).To(Equal("markdown"))
	})

	It("should skip blocks tagged for other languages", func() {
		doc := parseFile("languages.md")
		Expect(doc.Blocks).To(HaveLen(3))
		Expect(doc.Blocks[0].Info).To(Equal(""))
		Expect(doc.Blocks[1].Info).To(Equal("rust"))
		Expect(doc.Blocks[2].Directives.Ignore).To(BeTrue())
	})

	It("should keep block content line by line", func() {
		doc := parseFile("hashtag-test.md")
		Expect(doc.Blocks).To(HaveLen(1))
		Expect(doc.Blocks[0].Content[0]).To(Equal("# use std::collections::BTreeMap as Map;\n"))
		Expect(doc.Blocks[0].Content).To(HaveLen(8))
	})

	It("should only track level 1 and 2 headings as sections", func() {
		content := []byte("## Top\n\n### Deep\n\n~~~rust\nfn main() {}\n~~~\n")
		doc, err := x.Parse("deep.md", content, md)
		Expect(err).ToNot(HaveOccurred())
		Expect(doc.Blocks[0].Section).To(Equal("top"))
	})

	It("should leave blocks before any heading without a section", func() {
		content := []byte("~~~rust\nfn main() {}\n~~~\n\n# Later\n")
		doc, err := x.Parse("early.md", content, md)
		Expect(err).ToNot(HaveOccurred())
		Expect(doc.Blocks[0].HasSection).To(BeFalse())
		Expect(doc.Blocks[0].StartLine).To(Equal(1))
	})

	It("should number an empty block by its opening fence", func() {
		content := []byte("# T\n\n```rust\nfn main() {}\n```\n\ntext\n\n```rust\n```\n")
		doc, err := x.Parse("blah.md", content, md)
		Expect(err).ToNot(HaveOccurred())
		Expect(doc.Blocks).To(HaveLen(2))
		Expect(doc.Blocks[0].StartLine).To(Equal(3))
		Expect(doc.Blocks[1].StartLine).To(Equal(9))
		Expect(doc.Blocks[1].Content).To(BeEmpty())
	})

	It("should number an empty untagged block by its opening fence", func() {
		content := []byte("```rust\nfn main() {}\n```\n\n```\n```\n\n~~~\n~~~\n")
		doc, err := x.Parse("blah.md", content, md)
		Expect(err).ToNot(HaveOccurred())
		Expect(startLines(doc)).To(Equal([]int{1, 5, 8}))
	})

	It("should number an empty AsciiDoc block by its delimiter", func() {
		content := []byte("= T\n\n[source,rust]\n----\nfn main() {}\n----\n\n[source,rust]\n----\n----\n")
		doc, err := x.Parse("blah.adoc", content, parser.NewAsciiDocParser())
		Expect(err).ToNot(HaveOccurred())
		Expect(doc.Blocks).To(HaveLen(2))
		Expect(doc.Blocks[0].StartLine).To(Equal(4))
		Expect(doc.Blocks[1].StartLine).To(Equal(9))
	})

	It("should record the heading structure", func() {
		doc := parseFile("combined-tests.md")
		Expect(doc.Headings).To(HaveLen(1))
		Expect(doc.Headings[0].Text).To(Equal("Combined tests"))
		Expect(doc.Headings[0].Line).To(Equal(1))
	})

	Describe("legacy templates", func() {
		It("should capture the template instead of producing a block", func() {
			doc := parseFile("legacy-template.md")
			Expect(doc.HasLegacyTemplate).To(BeTrue())
			Expect(doc.LegacyTemplate).To(Equal("fn main() {{\n    {}\n}}\n"))
			Expect(doc.Blocks).To(HaveLen(1))
		})

		It("should keep the last legacy template", func() {
			content := []byte("~~~rust,skeptic-template\nfirst {}\n~~~\n\n~~~rust,skeptic-template\nsecond {}\n~~~\n")
			doc, err := x.Parse("two.md", content, md)
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.LegacyTemplate).To(Equal("second {}\n"))
		})

		It("should report no template when none is declared", func() {
			doc := parseFile("should-panic-test.md")
			Expect(doc.HasLegacyTemplate).To(BeFalse())
		})
	})

	Describe("invalid directives", func() {
		It("should reject ignored blocks in a combined test", func() {
			content := []byte("# Doc\n\n~~~rust,ignore,sk-part-of-g\nfn main() {}\n~~~\n")
			_, err := x.Parse("bad.md", content, md)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("bad.md"))
			Expect(err.Error()).To(ContainSubstring(`"g"`))
		})

		It("should reject combined legacy templates", func() {
			content := []byte("~~~rust,skeptic-template,sk-part-of-g\n{}\n~~~\n")
			_, err := x.Parse("bad.md", content, md)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("event stream", func() {
		It("should read the offset before consuming each event", func() {
			content := []byte("a\nb\nc\nd\n")
			src := parser.NewSliceSource([]parser.Event{
				{Kind: parser.EnterHeading, Level: 2, Offset: 0},
				{Kind: parser.Text, Text: "Head", Offset: 0},
				{Kind: parser.ExitHeading, Level: 2, Offset: 1},
				{Kind: parser.EnterCodeBlock, Info: "rust", Offset: 2},
				{Kind: parser.Text, Text: "c\n", Offset: 4},
				{Kind: parser.Text, Text: "d\n", Offset: 6},
				{Kind: parser.ExitCodeBlock, Info: "rust", Offset: 8},
			}, len(content))

			doc, err := x.Extract(src, content)
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Blocks).To(HaveLen(1))
			Expect(doc.Blocks[0].StartLine).To(Equal(2))
			Expect(doc.Blocks[0].Section).To(Equal("head"))
			Expect(doc.Blocks[0].Content).To(Equal([]string{"c\n", "d\n"}))
		})

		It("should ignore text outside headings and code blocks", func() {
			src := parser.NewSliceSource([]parser.Event{
				{Kind: parser.Text, Text: "loose"},
				{Kind: parser.EnterCodeBlock, Info: "python"},
				{Kind: parser.Text, Text: "print()\n"},
				{Kind: parser.ExitCodeBlock, Info: "python"},
			}, 0)
			doc, err := x.Extract(src, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Blocks).To(BeEmpty())
		})
	})
})
