package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/fjglira/GoSkeptic/internal/domain"
)

// DefaultPattern selects Markdown documents at any depth.
const DefaultPattern = "**/*.md"

// Scanner discovers documentation files in the project tree.
type Scanner interface {
	Scan(rootDir string, patterns []string, excludes []string) ([]string, error)
}

// FileScanner implements Scanner using filepath.WalkDir. Patterns are
// matched case-insensitively against slash-separated paths relative to the
// scanned directory.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// MarkdownFiles lists every file below dir whose extension is .md in any
// letter case, sorted by path.
func MarkdownFiles(dir string) ([]string, error) {
	return NewScanner(true).Scan(dir, []string{DefaultPattern}, nil)
}

// Scan walks rootDir and returns sorted file paths matching any of the given
// glob patterns while excluding paths that match any exclude pattern.
func (s *FileScanner) Scan(rootDir string, patterns []string, excludes []string) ([]string, error) {
	includes, err := compileAll(patterns)
	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "invalid include pattern", err)
	}
	skips, err := compileAll(excludes)
	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "invalid exclude pattern", err)
	}

	var files []string

	err = filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Get path relative to rootDir for pattern matching
		relPath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if !s.Recursive {
				return filepath.SkipDir
			}
			if skips.match(relPath) || skips.match(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if skips.match(relPath) {
			return nil
		}
		if includes.match(relPath) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

// matcher is one compiled pattern. Patterns without a slash also match the
// base name; a leading "**/" also matches at the top level.
type matcher struct {
	full     glob.Glob
	base     bool
	topLevel glob.Glob
}

type matchers []matcher

func compileAll(patterns []string) (matchers, error) {
	var ms matchers
	for _, p := range patterns {
		p = strings.ToLower(filepath.ToSlash(p))
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		m := matcher{full: g, base: !strings.Contains(p, "/")}
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			if m.topLevel, err = glob.Compile(rest, '/'); err != nil {
				return nil, fmt.Errorf("%q: %w", p, err)
			}
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func (ms matchers) match(relPath string) bool {
	relPath = strings.ToLower(relPath)
	base := relPath[strings.LastIndex(relPath, "/")+1:]
	for _, m := range ms {
		switch {
		case m.full.Match(relPath):
			return true
		case m.base && m.full.Match(base):
			return true
		case m.topLevel != nil && m.topLevel.Match(relPath):
			return true
		}
	}
	return false
}
