package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/GoSkeptic/internal/domain"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "skeptic.yaml"

// Config is the top-level configuration struct.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Tags      TagConfig       `yaml:"tags"`
	Project   ProjectConfig   `yaml:"project"`
	Output    OutputConfig    `yaml:"output"`
	Templates TemplateConfig  `yaml:"templates"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Logging   LoggingConfig   `yaml:"logging"`
	Watch     WatchConfig     `yaml:"watch"`
	DryRun    bool            `yaml:"dry_run"`
}

type InputConfig struct {
	Documents   []string `yaml:"documents"`
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type TagConfig struct {
	Language string `yaml:"language"`
}

// ProjectConfig locates the Cargo project whose artifacts tests link against.
type ProjectConfig struct {
	RootDir string `yaml:"root_dir"`
	OutDir  string `yaml:"out_dir"`
	Target  string `yaml:"target"`
}

type OutputConfig struct {
	Directory    string `yaml:"directory"`
	FileName     string `yaml:"file_name"`
	PackageName  string `yaml:"package_name"`
	BuildTag     string `yaml:"build_tag"`
	Signals      bool   `yaml:"signals"`
	SignalPrefix string `yaml:"signal_prefix"`
}

type TemplateConfig struct {
	Suffix    string `yaml:"suffix"`
	Directory string `yaml:"directory"`
	Default   string `yaml:"default"`
}

type ToolchainConfig struct {
	Compiler      string   `yaml:"compiler"`
	ExtraArgs     []string `yaml:"extra_args"`
	RuntimeImport string   `yaml:"runtime_import"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// IsRecursive reports whether input directories are scanned recursively.
func (c InputConfig) IsRecursive() bool {
	return c.Recursive == nil || *c.Recursive
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when it is set or, for an empty path, the
// default file if it exists. Otherwise the defaults are returned.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return Load(DefaultFileName)
	}
	return DefaultConfig(), nil
}
