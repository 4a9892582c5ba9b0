package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoSkeptic/internal/config"
)

var _ = Describe("applyEnv", func() {
	env := func(vars map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		}
	}

	It("should fill defaults from the Cargo build environment", func() {
		cfg := config.DefaultConfig()
		applyEnv(cfg, env(map[string]string{
			"CARGO_MANIFEST_DIR": "/src/crate",
			"OUT_DIR":            "/src/crate/target/debug/build/crate-1/out",
			"TARGET":             "aarch64-apple-darwin",
			"RUSTC":              "/opt/rust/bin/rustc",
		}))
		Expect(cfg.Project.RootDir).To(Equal("/src/crate"))
		Expect(cfg.Project.OutDir).To(Equal("/src/crate/target/debug/build/crate-1/out"))
		Expect(cfg.Project.Target).To(Equal("aarch64-apple-darwin"))
		Expect(cfg.Toolchain.Compiler).To(Equal("/opt/rust/bin/rustc"))
	})

	It("should keep values set in the configuration file", func() {
		cfg := config.DefaultConfig()
		cfg.Project.RootDir = "/configured"
		applyEnv(cfg, env(map[string]string{"CARGO_MANIFEST_DIR": "/src/crate"}))
		Expect(cfg.Project.RootDir).To(Equal("/configured"))
	})

	It("should leave defaults alone without the environment", func() {
		cfg := config.DefaultConfig()
		applyEnv(cfg, env(nil))
		Expect(cfg).To(Equal(config.DefaultConfig()))
	})
})

var _ = Describe("configureLogger", func() {
	It("should apply level and format", func() {
		l := logrus.New()
		Expect(configureLogger(l, config.LoggingConfig{Level: "debug", Format: "json"})).To(Succeed())
		Expect(l.GetLevel()).To(Equal(logrus.DebugLevel))
		Expect(l.Formatter).To(BeAssignableToTypeOf(&logrus.JSONFormatter{}))
	})

	It("should reject unknown levels", func() {
		Expect(configureLogger(logrus.New(), config.LoggingConfig{Level: "loud"})).NotTo(Succeed())
	})
})

var _ = Describe("commands", func() {
	var out *bytes.Buffer

	run := func(args ...string) error {
		out = &bytes.Buffer{}
		rootCmd.SetOut(out)
		rootCmd.SetErr(io.Discard)
		rootCmd.SetArgs(args)
		return rootCmd.Execute()
	}

	BeforeEach(func() {
		log.SetOutput(io.Discard)
		cfgFile, verbose, dryRun = "", false, false
	})

	It("should list markdown documents without template files", func() {
		Expect(run("list", filepath.Join("..", "..", "testdata", "markdown"))).To(Succeed())
		Expect(out.String()).To(ContainSubstring("languages.md"))
		Expect(out.String()).To(ContainSubstring("UPPER.MD"))
		Expect(out.String()).NotTo(ContainSubstring(".skt.md"))
	})

	It("should generate from documents given as arguments", func() {
		dir := GinkgoT().TempDir()
		output := filepath.Join(dir, "docs_test.go")
		Expect(run("generate",
			"--root-dir", dir,
			"--out-dir", filepath.Join(dir, "target", "debug"),
			"--output", output,
			filepath.Join("..", "..", "testdata", "markdown", "languages.md"),
		)).To(Succeed())

		data, err := os.ReadFile(output)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("func Test_languages_sect_languages_line_"))
	})

	DescribeTable("should validate the output flag with the configuration",
		func(output func(dir string) string) {
			dir := GinkgoT().TempDir()
			err := run("generate", "--output", output(dir),
				filepath.Join("..", "..", "testdata", "markdown", "languages.md"))
			Expect(err).To(MatchError(ContainSubstring("output.file_name")))
			entries, readErr := os.ReadDir(dir)
			Expect(readErr).ToNot(HaveOccurred())
			Expect(entries).To(BeEmpty())
		},
		Entry("a file that is not a test file", func(dir string) string { return filepath.Join(dir, "docs.go") }),
		Entry("a directory without a file name", func(dir string) string { return dir + string(filepath.Separator) }),
	)

	It("should validate a configuration and its documents", func() {
		doc, err := filepath.Abs(filepath.Join("..", "..", "testdata", "markdown", "languages.md"))
		Expect(err).ToNot(HaveOccurred())
		cfgPath := filepath.Join(GinkgoT().TempDir(), "skeptic.yaml")
		Expect(os.WriteFile(cfgPath, []byte("input:\n  documents:\n    - "+doc+"\n"), 0644)).To(Succeed())

		Expect(run("validate", "--config", cfgPath)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("is valid: 1 document(s), 3 test(s)"))
	})

	It("should fail validation for a missing document", func() {
		cfgPath := filepath.Join(GinkgoT().TempDir(), "skeptic.yaml")
		Expect(os.WriteFile(cfgPath, []byte("input:\n  documents:\n    - does-not-exist.md\n"), 0644)).To(Succeed())
		Expect(run("validate", "--config", cfgPath)).NotTo(Succeed())
	})
})
