package template

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/fjglira/GoSkeptic/internal/domain"
)

// DefaultTemplateName is the name of the built-in output template.
const DefaultTemplateName = "skeptic_default"

// DefaultRuntimeImport is the import path of the runtime support package
// generated tests call into.
const DefaultRuntimeImport = "github.com/fjglira/GoSkeptic/pkg/rt"

//go:embed templates/*.tmpl
var builtin embed.FS

// TemplateEngine renders doc tests into Go test source.
type TemplateEngine interface {
	Render(out Output) (string, error)
	ListTemplates() []string
}

// Output describes one generated test file.
type Output struct {
	PackageName   string
	BuildTag      string
	RuntimeImport string
	Compiler      string
	ExtraArgs     []string
	RootDir       string
	OutDir        string
	Target        string
	Docs          []domain.DocTest
}

// templateData is the struct passed to templates.
type templateData struct {
	PackageName   string
	BuildTag      string
	RuntimeImport string
	Compiler      string
	ExtraArgs     []string
	RootDir       string
	OutDir        string
	Target        string
	Tests         []domain.Test
}

// DefaultEngine implements TemplateEngine.
type DefaultEngine struct {
	templates   map[string]*template.Template
	defaultName string
	templateDir string
}

// NewEngine creates a template engine with the built-in templates plus
// every .tmpl file in templateDir, which may override a built-in by name.
// An empty templateDir uses only the built-ins.
func NewEngine(templateDir string, defaultTemplate string) (*DefaultEngine, error) {
	if defaultTemplate == "" {
		defaultTemplate = DefaultTemplateName
	}
	engine := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		defaultName: defaultTemplate,
		templateDir: templateDir,
	}

	if err := engine.loadTemplates(builtin, "templates", "builtin"); err != nil {
		return nil, err
	}
	if templateDir != "" {
		if err := engine.loadTemplates(os.DirFS(templateDir), ".", templateDir); err != nil {
			return nil, err
		}
	}

	if _, ok := engine.templates[defaultTemplate]; !ok {
		return nil, domain.NewError("template", templateDir, 0,
			fmt.Sprintf("default template %q not found (available: %s)", defaultTemplate, strings.Join(engine.ListTemplates(), ", ")), nil)
	}

	return engine, nil
}

// loadTemplates reads all .tmpl files from dir within fsys.
func (e *DefaultEngine) loadTemplates(fsys fs.FS, dir, origin string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return domain.NewError("template", origin, 0, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join(origin, entry.Name())
		content, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, entry.Name())))
		if err != nil {
			return domain.NewError("template", path, 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("template", path, 0, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}

	return nil
}

// Render renders every test of out.Docs, in document order, into one
// formatted Go source file.
func (e *DefaultEngine) Render(out Output) (string, error) {
	tmpl := e.templates[e.defaultName]

	data := templateData{
		PackageName:   out.PackageName,
		BuildTag:      out.BuildTag,
		RuntimeImport: out.RuntimeImport,
		Compiler:      out.Compiler,
		ExtraArgs:     out.ExtraArgs,
		RootDir:       out.RootDir,
		OutDir:        out.OutDir,
		Target:        out.Target,
	}
	if data.RuntimeImport == "" {
		data.RuntimeImport = DefaultRuntimeImport
	}
	for _, doc := range out.Docs {
		data.Tests = append(data.Tests, doc.Tests...)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewError("render", e.defaultName, 0, "failed to execute template", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Return unformatted if go/format fails (might be useful for debugging)
		return buf.String(), domain.NewError("render", e.defaultName, 0,
			"generated code failed go/format validation", err)
	}

	return string(formatted), nil
}

// ListTemplates returns the names of all loaded templates.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
