package parser_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoSkeptic/internal/parser"
)

var _ = Describe("DefaultRegistry", func() {
	var registry *parser.DefaultRegistry

	BeforeEach(func() {
		registry = parser.NewRegistry()
		registry.Register(parser.NewMarkdownParser())
		registry.Register(parser.NewAsciiDocParser())
	})

	It("should find parsers by extension regardless of case and dot", func() {
		p, err := registry.ParserFor(".MD")
		Expect(err).ToNot(HaveOccurred())
		Expect(p.FileType()).To(Equal("markdown"))

		p, err = registry.ParserFor("adoc")
		Expect(err).ToNot(HaveOccurred())
		Expect(p.FileType()).To(Equal("asciidoc"))
	})

	It("should fail for unknown extensions", func() {
		_, err := registry.ParserFor(".txt")
		Expect(err).To(HaveOccurred())
	})

	It("should use the fallback parser when set", func() {
		registry.SetFallback(parser.NewMarkdownParser())
		p, err := registry.ParserFor(".txt")
		Expect(err).ToNot(HaveOccurred())
		Expect(p.FileType()).To(Equal("markdown"))
	})
})

var _ = Describe("NewDefaultRegistry", func() {
	It("should register Markdown and AsciiDoc with a Markdown fallback", func() {
		registry := parser.NewDefaultRegistry()
		Expect(registry.Supports(".md")).To(BeTrue())
		Expect(registry.Supports(".ADOC")).To(BeTrue())
		Expect(registry.Supports(".go")).To(BeFalse())

		p, err := registry.ParserFor(".txt")
		Expect(err).ToNot(HaveOccurred())
		Expect(p.FileType()).To(Equal("markdown"))
	})
})
