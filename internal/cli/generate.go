package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoSkeptic/internal/config"
	"github.com/fjglira/GoSkeptic/internal/converter"
	"github.com/fjglira/GoSkeptic/internal/generator"
	"github.com/fjglira/GoSkeptic/internal/parser"
	"github.com/fjglira/GoSkeptic/internal/scanner"
	tmpl "github.com/fjglira/GoSkeptic/internal/template"
)

var generateFlags struct {
	rootDir string
	outDir  string
	target  string
	output  string
	signals bool
}

var generateCmd = &cobra.Command{
	Use:   "generate [documents...]",
	Short: "Generate the Go test file from documentation",
	Long: `Extracts the code blocks of every document and writes one Go test file.
Documents given as arguments replace input.documents from the configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(func(c *config.Config) {
			applyGenerateFlags(cmd, c, args)
		})
		if err != nil {
			return err
		}

		log.WithField("documents", cfg.Input.Documents).Info("Configuration loaded successfully")
		log.WithField("directories", cfg.Input.Directories).Debug("Scanning directories")

		gen, err := newGenerator(cfg)
		if err != nil {
			return err
		}
		if cfg.Output.Signals {
			gen.WithSignals(os.Stdout)
		}
		_, err = gen.Generate(cfg)
		return err
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateFlags.rootDir, "root-dir", "", "Cargo project root (project.root_dir)")
	f.StringVar(&generateFlags.outDir, "out-dir", "", "Cargo build output directory (project.out_dir)")
	f.StringVar(&generateFlags.target, "target", "", "target triple passed to the compiler (project.target)")
	f.StringVarP(&generateFlags.output, "output", "o", "", "generated file path")
	f.BoolVar(&generateFlags.signals, "signals", false, "print cargo:rerun-if-changed lines for every input")
	rootCmd.AddCommand(generateCmd)
}

func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Input.Documents = args
	}
	f := cmd.Flags()
	if f.Changed("root-dir") {
		cfg.Project.RootDir = generateFlags.rootDir
	}
	if f.Changed("out-dir") {
		cfg.Project.OutDir = generateFlags.outDir
	}
	if f.Changed("target") {
		cfg.Project.Target = generateFlags.target
	}
	if f.Changed("output") {
		cfg.Output.Directory, cfg.Output.FileName = splitOutput(generateFlags.output)
	}
	if f.Changed("signals") {
		cfg.Output.Signals = generateFlags.signals
	}
}

func splitOutput(path string) (dir, file string) {
	dir, file = filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return dir, file
}

// newGenerator wires all components.
func newGenerator(cfg *config.Config) (*generator.DefaultGenerator, error) {
	s := scanner.NewScanner(cfg.Input.IsRecursive())
	registry := parser.NewDefaultRegistry()
	conv := converter.NewConverter()

	engine, err := tmpl.NewEngine(cfg.Templates.Directory, cfg.Templates.Default)
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}

	return generator.NewGenerator(s, registry, conv, engine, log), nil
}
