package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			Documents: []string{"README.md"},
			Include:   []string{"**/*.md"},
			Exclude:   []string{"target/**", "vendor/**", "node_modules/**"},
			Recursive: &recursive,
		},
		Tags: TagConfig{
			Language: "rust",
		},
		Project: ProjectConfig{
			RootDir: ".",
			OutDir:  "target/debug",
		},
		Output: OutputConfig{
			Directory:    ".",
			FileName:     "skeptic_test.go",
			PackageName:  "skeptic_test",
			SignalPrefix: "cargo:rerun-if-changed=",
		},
		Templates: TemplateConfig{
			Suffix:  ".skt.md",
			Default: "skeptic_default",
		},
		Toolchain: ToolchainConfig{
			Compiler:      "rustc",
			RuntimeImport: "github.com/fjglira/GoSkeptic/pkg/rt",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: WatchConfig{
			Debounce: "300ms",
		},
		DryRun: false,
	}
}
