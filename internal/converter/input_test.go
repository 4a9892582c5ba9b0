package converter_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoSkeptic/internal/converter"
)

var _ = Describe("CleanOmittedLine", func() {
	DescribeTable("reveals hidden lines",
		func(line, expected string) {
			Expect(converter.CleanOmittedLine(line)).To(Equal(expected))
		},
		Entry("indented marker", "    # use std::x;\n", "use std::x;\n"),
		Entry("marker at column zero", "# fn main() {\n", "fn main() {\n"),
		Entry("bare marker", "    #\n", "\n"),
		Entry("bare marker without newline", "#", ""),
		Entry("ordinary line", "let x = 1;\n", "let x = 1;\n"),
		Entry("attribute is not a marker", "#[derive(Debug)]\n", "#[derive(Debug)]\n"),
		Entry("comment inside a line", "let x = 1; # note\n", "let x = 1; # note\n"),
		Entry("indentation of ordinary lines is kept", "    let y = 2;\n", "    let y = 2;\n"),
	)
})

var _ = Describe("CreateTestInput", func() {
	It("cleans and joins every chunk", func() {
		input := converter.CreateTestInput([]string{
			"# use std::fmt;\n",
			"#\n",
			"fn main() {}\n",
		})
		Expect(input).To(Equal("use std::fmt;\n\nfn main() {}\n"))
	})
})
