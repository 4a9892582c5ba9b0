package rt_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoSkeptic/pkg/rt"
)

var _ = Describe("Format", func() {
	DescribeTable("substitutes the placeholder",
		func(template, text, expected string) {
			out, err := rt.Format(template, text)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(expected))
		},
		Entry("identity", "{}", "fn main() {}\n", "fn main() {}\n"),
		Entry("escaped braces", "fn main() {{\n{}}}\n", "let x = 1;\n", "fn main() {\nlet x = 1;\n}\n"),
		Entry("text keeps its own braces", "// start\n{}", "{{}}", "// start\n{{}}"),
	)

	DescribeTable("rejects malformed templates",
		func(template string) {
			_, err := rt.Format(template, "x")
			Expect(err).To(MatchError(rt.ErrTemplate))
		},
		Entry("no placeholder", "fn main() {{}}"),
		Entry("two placeholders", "{}{}"),
		Entry("lone open brace", "fn main() { {} "),
		Entry("lone close brace", "{} }"),
	)
})

var _ = Describe("Assemble", func() {
	It("concatenates parts in order", func() {
		out, err := rt.Assemble(
			rt.Part{Template: "{}", Text: "use std::fmt;\n"},
			rt.Part{Template: "fn main() {{\n{}}}\n", Text: "println!(\"hi\");\n"},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("use std::fmt;\nfn main() {\nprintln!(\"hi\");\n}\n"))
	})

	It("names the failing part", func() {
		_, err := rt.Assemble(rt.Part{Template: "{}", Text: "a"}, rt.Part{Template: "none", Text: "b"})
		Expect(err).To(MatchError(ContainSubstring("part 2")))
		Expect(err).To(MatchError(rt.ErrTemplate))
	})

	It("returns an empty program for no parts", func() {
		out, err := rt.Assemble()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
	})
})
