package parser_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoSkeptic/internal/parser"
)

var _ = Describe("AsciiDocParser", func() {
	var p *parser.AsciiDocParser

	BeforeEach(func() {
		p = parser.NewAsciiDocParser()
	})

	Describe("SupportedExtensions", func() {
		It("should support .adoc and .asciidoc", func() {
			exts := p.SupportedExtensions()
			Expect(exts).To(ContainElements(".adoc", ".asciidoc"))
		})
	})

	Describe("Parse sample.adoc", func() {
		var content []byte

		BeforeEach(func() {
			var err error
			content, err = os.ReadFile(filepath.Join("..", "..", "testdata", "asciidoc", "sample.adoc"))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should emit three source blocks", func() {
			events := drain(p.Events(content))
			var infos []string
			for _, ev := range events {
				if ev.Kind == parser.EnterCodeBlock {
					infos = append(infos, ev.Info)
				}
			}
			Expect(infos).To(Equal([]string{"rust", "python", "rust,ignore"}))
		})

		It("should map heading levels", func() {
			events := drain(p.Events(content))
			var levels []int
			for _, ev := range events {
				if ev.Kind == parser.EnterHeading {
					levels = append(levels, ev.Level)
				}
			}
			Expect(levels).To(Equal([]int{0, 1, 2}))
		})

		It("should extract eligible blocks with sections", func() {
			doc, err := parser.NewExtractor("rust").Parse("sample.adoc", content, p)
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.FileType).To(Equal("asciidoc"))
			Expect(doc.Blocks).To(HaveLen(2))

			Expect(doc.Blocks[0].Section).To(Equal("getting_started"))
			Expect(doc.Blocks[0].StartLine).To(Equal(6))
			Expect(strings.Join(doc.Blocks[0].Content, "")).To(Equal("fn main() {\n    println!(\"hello\");\n}\n"))

			Expect(doc.Blocks[1].Section).To(Equal("ignored_example"))
			Expect(doc.Blocks[1].StartLine).To(Equal(20))
			Expect(doc.Blocks[1].Directives.Ignore).To(BeTrue())
		})
	})

	It("should skip source blocks without a delimiter", func() {
		events := drain(p.Events([]byte("[source,rust]\nfn main() {}\n")))
		Expect(events).To(BeEmpty())
	})
})
