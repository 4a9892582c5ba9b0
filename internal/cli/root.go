package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/GoSkeptic/internal/config"
)

var (
	cfgFile string
	verbose bool
	dryRun  bool
	log     = logrus.New()
)

// rootCmd is the base command for skeptic.
var rootCmd = &cobra.Command{
	Use:   "skeptic",
	Short: "Generate Go tests from the Rust examples in your documentation",
	Long: `skeptic reads documentation files (Markdown, AsciiDoc), extracts the
fenced Rust code blocks and generates a Go test file with one test per block.
Each test compiles the snippet with rustc against the artifacts of an existing
Cargo build and, unless marked no_run, runs it.

Settings come from a YAML configuration file (skeptic.yaml), the Cargo build
environment and command line flags, in increasing order of precedence.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default "+config.DefaultFileName+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "parse and convert but don't write files")

	log.SetOutput(os.Stderr)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the configuration, applies the environment, the
// persistent flags and any command overrides, validates it and configures
// the logger from it.
func loadConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyEnv(cfg, os.LookupEnv)
	if dryRun {
		cfg.DryRun = true
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	for _, override := range overrides {
		override(cfg)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := configureLogger(log, cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv fills project and toolchain settings left at their defaults from
// the variables Cargo sets for build scripts.
func applyEnv(cfg *config.Config, lookup func(string) (string, bool)) {
	defaults := config.DefaultConfig()
	set := func(dst *string, def, key string) {
		if v, ok := lookup(key); ok && v != "" && *dst == def {
			*dst = v
		}
	}
	set(&cfg.Project.RootDir, defaults.Project.RootDir, "CARGO_MANIFEST_DIR")
	set(&cfg.Project.OutDir, defaults.Project.OutDir, "OUT_DIR")
	set(&cfg.Project.Target, defaults.Project.Target, "TARGET")
	set(&cfg.Toolchain.Compiler, defaults.Toolchain.Compiler, "RUSTC")
}

func configureLogger(l *logrus.Logger, cfg config.LoggingConfig) error {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	l.SetLevel(lvl)
	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
