package domain

// IdentityTemplate is the template used when a block names none: the
// block text is substituted as is.
const IdentityTemplate = "{}"

// InfoDirectives is the classified form of a fenced code block info string.
type InfoDirectives struct {
	IsEligible       bool
	Ignore           bool
	NoRun            bool
	ShouldPanic      bool
	IsLegacyTemplate bool
	UsesTemplate     bool     // an skt-<name> token was present
	NamedTemplate    string   // the <name> of the last skt- token
	PartOf           []string // sk-part-of-<group> names, deduplicated, in info order
	OtherTags        []string // info tokens that carry no directive
}

// CodeBlock is one candidate fenced block extracted from a document.
type CodeBlock struct {
	Content    []string // content chunks, each keeping its trailing newline
	StartLine  int
	Section    string
	HasSection bool
	Info       string // the raw info string
	Directives InfoDirectives
}

// ParsedDocument holds the result of scanning a single document.
type ParsedDocument struct {
	FilePath          string
	FileType          string // "markdown" or "asciidoc"
	FileStem          string // sanitized file stem used as the test name prefix
	Blocks            []CodeBlock
	Headings          []Heading
	LegacyTemplate    string
	HasLegacyTemplate bool
}

// Heading represents a level 1 or 2 document heading.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Template is a named format string with exactly one "{}" placeholder.
type Template struct {
	Name string
	Body string
}

// Part is one (template, argument) pair of a generated test.
type Part struct {
	Template string
	Text     string
}

// Test is a fully assembled doc test ready for rendering.
type Test struct {
	Name        string
	SourceFile  string
	LineNumber  int
	Parts       []Part
	Ignore      bool
	NoRun       bool
	ShouldPanic bool
	Combined    bool
}

// DocTest is the extraction result of one document.
type DocTest struct {
	Path              string
	Tests             []Test
	LegacyTemplate    string
	HasLegacyTemplate bool
	Templates         map[string]Template
}
