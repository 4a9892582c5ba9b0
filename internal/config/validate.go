package config

import (
	"fmt"
	"go/token"
	"strings"
	"time"
	"unicode"

	"github.com/fjglira/GoSkeptic/internal/domain"
)

// Validate checks the Config for required fields and valid values.
// Every violation is reported in a single error.
func Validate(cfg *Config) error {
	var errs []string

	// Input validation
	if len(cfg.Input.Directories) > 0 && len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty when input.directories is set")
	}

	// Tags validation
	if cfg.Tags.Language == "" {
		errs = append(errs, "tags.language must not be empty")
	} else if strings.IndexFunc(cfg.Tags.Language, isSeparator) >= 0 {
		errs = append(errs, fmt.Sprintf("tags.language must be a single token (got %q)", cfg.Tags.Language))
	}

	// Project validation
	if cfg.Project.RootDir == "" {
		errs = append(errs, "project.root_dir must not be empty")
	}
	if cfg.Project.OutDir == "" {
		errs = append(errs, "project.out_dir must not be empty")
	}

	// Output validation
	if cfg.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}
	if !strings.HasSuffix(cfg.Output.FileName, "_test.go") {
		errs = append(errs, "output.file_name must end with _test.go")
	}
	if !token.IsIdentifier(cfg.Output.PackageName) {
		errs = append(errs, fmt.Sprintf("output.package_name must be a Go identifier (got %q)", cfg.Output.PackageName))
	}
	if cfg.Output.BuildTag != "" && strings.ContainsAny(cfg.Output.BuildTag, "\r\n") {
		errs = append(errs, "output.build_tag must be a single line")
	}

	// Templates validation
	if cfg.Templates.Suffix == "" {
		errs = append(errs, "templates.suffix must not be empty")
	}

	// Toolchain validation
	if cfg.Toolchain.Compiler == "" {
		errs = append(errs, "toolchain.compiler must not be empty")
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}
	if cfg.Logging.Format != "" && cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		errs = append(errs, fmt.Sprintf("logging.format must be text or json (got %q)", cfg.Logging.Format))
	}

	if cfg.Watch.Debounce != "" {
		if d, err := time.ParseDuration(cfg.Watch.Debounce); err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("watch.debounce must be a positive duration (got %q)", cfg.Watch.Debounce))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}

// DebounceInterval returns the parsed watch debounce, 300ms when unset.
func (c WatchConfig) DebounceInterval() time.Duration {
	if d, err := time.ParseDuration(c.Debounce); err == nil && d > 0 {
		return d
	}
	return 300 * time.Millisecond
}

// isSeparator mirrors the info-string tokenizer: anything but letters,
// digits, '_' and '-' splits tokens.
func isSeparator(r rune) bool {
	return !(r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsNumber(r))
}
