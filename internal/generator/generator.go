package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoSkeptic/internal/config"
	"github.com/fjglira/GoSkeptic/internal/converter"
	"github.com/fjglira/GoSkeptic/internal/domain"
	"github.com/fjglira/GoSkeptic/internal/parser"
	"github.com/fjglira/GoSkeptic/internal/scanner"
	tmpl "github.com/fjglira/GoSkeptic/internal/template"
)

// Generator is the top-level orchestrator.
type Generator interface {
	Generate(cfg *config.Config) (*Result, error)
}

// Result summarizes one generation run.
type Result struct {
	Documents  []string
	Tests      int
	OutputPath string
	Written    bool
}

// DefaultGenerator implements Generator by wiring all components together.
type DefaultGenerator struct {
	scanner   scanner.Scanner
	registry  parser.ParserRegistry
	converter converter.Converter
	engine    tmpl.TemplateEngine
	signals   io.Writer
	log       *logrus.Logger
}

// NewGenerator creates a new DefaultGenerator with all dependencies.
func NewGenerator(
	s scanner.Scanner,
	r parser.ParserRegistry,
	c converter.Converter,
	e tmpl.TemplateEngine,
	log *logrus.Logger,
) *DefaultGenerator {
	return &DefaultGenerator{
		scanner:   s,
		registry:  r,
		converter: c,
		engine:    e,
		log:       log,
	}
}

// WithSignals makes Generate write one rerun signal per input file to w.
func (g *DefaultGenerator) WithSignals(w io.Writer) *DefaultGenerator {
	g.signals = w
	return g
}

// Generate runs the full pipeline: collect → parse → convert → render → write.
// Documents are processed one at a time in the order Documents returns them.
func (g *DefaultGenerator) Generate(cfg *config.Config) (*Result, error) {
	store := parser.NewTemplateStore(cfg.Templates.Suffix, cfg.Tags.Language, g.registry)
	outputPath := filepath.Join(cfg.Output.Directory, cfg.Output.FileName)
	result := &Result{OutputPath: outputPath}

	docs, err := g.Documents(cfg, store)
	if err != nil {
		return nil, err
	}
	result.Documents = docs

	if len(docs) == 0 {
		g.log.Warn("No documentation files found")
		return result, nil
	}
	g.log.Infof("Found %d documentation file(s)", len(docs))

	if err := g.emitSignals(cfg, store, docs); err != nil {
		return nil, err
	}

	extractor := parser.NewExtractor(cfg.Tags.Language)
	var docTests []domain.DocTest
	for _, path := range docs {
		docTest, err := g.processDocument(path, extractor, store)
		if err != nil {
			return nil, err
		}
		result.Tests += len(docTest.Tests)
		docTests = append(docTests, *docTest)
	}

	if err := checkUniqueNames(docTests); err != nil {
		return nil, err
	}

	rootDir, err := filepath.Abs(cfg.Project.RootDir)
	if err != nil {
		return nil, domain.NewError("config", cfg.Project.RootDir, 0, "failed to resolve project root", err)
	}
	outDir, err := filepath.Abs(cfg.Project.OutDir)
	if err != nil {
		return nil, domain.NewError("config", cfg.Project.OutDir, 0, "failed to resolve output directory", err)
	}

	rendered, err := g.engine.Render(tmpl.Output{
		PackageName:   cfg.Output.PackageName,
		BuildTag:      cfg.Output.BuildTag,
		RuntimeImport: cfg.Toolchain.RuntimeImport,
		Compiler:      cfg.Toolchain.Compiler,
		ExtraArgs:     cfg.Toolchain.ExtraArgs,
		RootDir:       rootDir,
		OutDir:        outDir,
		Target:        cfg.Project.Target,
		Docs:          docTests,
	})
	if err != nil {
		return nil, err
	}

	g.log.Infof("Generated %d test(s)", result.Tests)

	if cfg.DryRun {
		g.log.Infof("[DRY-RUN] Would write: %s", outputPath)
		g.log.Debugf("[DRY-RUN] Content:\n%s", rendered)
		return result, nil
	}

	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		return nil, domain.NewErrorWithSuggestion("write", cfg.Output.Directory, 0,
			"failed to create output directory",
			"check that the parent directory exists and has write permissions",
			err)
	}

	written, err := WriteIfChanged(outputPath, []byte(rendered))
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("write", outputPath, 0,
			"failed to write output file",
			"check disk space and write permissions for the output directory",
			err)
	}
	result.Written = written
	if written {
		g.log.Infof("Writing: %s", outputPath)
	} else {
		g.log.Infof("Unchanged: %s", outputPath)
	}

	g.log.Info("Generation complete")
	return result, nil
}

// Documents returns the explicit documents followed by every document found
// in the input directories, without companion template files and without
// duplicates. Order is otherwise preserved.
func (g *DefaultGenerator) Documents(cfg *config.Config, store *parser.TemplateStore) ([]string, error) {
	candidates := append([]string(nil), cfg.Input.Documents...)
	for _, dir := range cfg.Input.Directories {
		g.log.Debugf("Scanning directory: %s", dir)
		files, err := g.scanner.Scan(dir, cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, files...)
	}

	seen := make(map[string]bool)
	var docs []string
	for _, path := range candidates {
		if store.IsCompanion(path) {
			g.log.Debugf("Skipping template file: %s", path)
			continue
		}
		key := filepath.Clean(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		docs = append(docs, path)
	}
	return docs, nil
}

func (g *DefaultGenerator) emitSignals(cfg *config.Config, store *parser.TemplateStore, docs []string) error {
	if g.signals == nil {
		return nil
	}
	for _, path := range docs {
		if _, err := fmt.Fprintf(g.signals, "%s%s\n", cfg.Output.SignalPrefix, path); err != nil {
			return domain.NewError("write", path, 0, "failed to emit rerun signal", err)
		}
		companion := store.CompanionPath(path)
		if _, err := os.Stat(companion); err == nil {
			if _, err := fmt.Fprintf(g.signals, "%s%s\n", cfg.Output.SignalPrefix, companion); err != nil {
				return domain.NewError("write", companion, 0, "failed to emit rerun signal", err)
			}
		}
	}
	return nil
}

func (g *DefaultGenerator) processDocument(path string, extractor *parser.Extractor, store *parser.TemplateStore) (*domain.DocTest, error) {
	g.log.Debugf("Processing: %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", path, 0,
			"failed to read file",
			"check that the file exists and has read permissions",
			err)
	}

	p, err := g.registry.ParserFor(filepath.Ext(path))
	if err != nil {
		return nil, domain.NewError("parse", path, 0, "no parser for document", err)
	}

	doc, err := extractor.Parse(path, content, p)
	if err != nil {
		return nil, err
	}

	templates, err := store.Load(path)
	if err != nil {
		return nil, err
	}

	docTest, err := g.converter.Convert(doc, templates)
	if err != nil {
		return nil, err
	}

	for _, b := range doc.Blocks {
		g.log.WithFields(logrus.Fields{
			"document": path,
			"line":     b.StartLine,
			"info":     b.Info,
			"extra":    b.Directives.OtherTags,
		}).Debug("Found code block")
	}

	g.log.WithFields(logrus.Fields{
		"document":  path,
		"type":      doc.FileType,
		"sections":  len(doc.Headings),
		"blocks":    len(doc.Blocks),
		"templates": len(templates),
		"tests":     len(docTest.Tests),
	}).Debug("Converted document")
	return docTest, nil
}

// checkUniqueNames rejects two tests that would render to the same function.
func checkUniqueNames(docs []domain.DocTest) error {
	owner := make(map[string]string)
	for _, doc := range docs {
		for _, t := range doc.Tests {
			if prev, ok := owner[t.Name]; ok {
				return domain.NewErrorWithSuggestion("convert", doc.Path, t.LineNumber,
					fmt.Sprintf("test name %q is also generated from %s", t.Name, prev),
					"rename one of the documents or its section heading", nil)
			}
			owner[t.Name] = doc.Path
		}
	}
	return nil
}

// WriteIfChanged writes content to path unless the file already holds
// exactly these bytes, leaving its modification time untouched.
// It reports whether the file was written.
func WriteIfChanged(path string, content []byte) (bool, error) {
	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(current, content) {
			return false, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, err
	}
	return true, nil
}
