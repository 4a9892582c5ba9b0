package rt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// T is the subset of testing.TB a Runner reports to.
type T interface {
	Helper()
	Logf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// Mode selects whether a doc test is only compiled or also executed.
type Mode int

const (
	ModeRun Mode = iota
	ModeCompile
)

func (m Mode) String() string {
	if m == ModeCompile {
		return "compile"
	}
	return "run"
}

const (
	sourceFile = "test.rs"
	binaryFile = "out.exe"
)

// Runner drives one generated doc test: it writes the assembled program to
// a fresh scratch directory, resolves dependencies, compiles, and in run
// mode executes the result.
type Runner struct {
	t           T
	toolchain   Toolchain
	resolver    *Resolver
	shouldPanic bool
	ctx         context.Context
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for dependency resolution.
func WithLogger(log *logrus.Logger) Option {
	return func(r *Runner) { r.resolver = NewResolver(log) }
}

// WithContext bounds every toolchain step by ctx.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) { r.ctx = ctx }
}

// New creates a Runner reporting to t.
func New(t T, tc Toolchain, opts ...Option) *Runner {
	r := &Runner{
		t:         t,
		toolchain: tc,
		resolver:  NewResolver(nil),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ShouldPanic makes the test pass only if compiling or running fails.
func (r *Runner) ShouldPanic() *Runner {
	r.shouldPanic = true
	return r
}

// Assemble concatenates the formatted parts, failing the test on a
// malformed template.
func (r *Runner) Assemble(parts ...Part) string {
	r.t.Helper()
	s, err := Assemble(parts...)
	if err != nil {
		r.t.Fatalf("assemble doc test: %v", err)
		return ""
	}
	return s
}

// RunTest compiles text and runs the resulting program.
func (r *Runner) RunTest(rootDir, outDir, target, text string) {
	r.t.Helper()
	r.finish(r.Exec(ModeRun, rootDir, outDir, target, text))
}

// CompileTest only compiles text.
func (r *Runner) CompileTest(rootDir, outDir, target, text string) {
	r.t.Helper()
	r.finish(r.Exec(ModeCompile, rootDir, outDir, target, text))
}

// Exec performs the compile-then-optionally-run sequence and returns the
// first failure. Captured toolchain output is logged either way.
func (r *Runner) Exec(mode Mode, rootDir, outDir, target, text string) error {
	r.t.Helper()

	scratch, err := os.MkdirTemp("", "rust-skeptic-")
	if err != nil {
		return &setupError{err: fmt.Errorf("create scratch dir: %w", err)}
	}
	defer os.RemoveAll(scratch)

	src := filepath.Join(scratch, sourceFile)
	bin := filepath.Join(scratch, binaryFile)
	if err := os.WriteFile(src, []byte(text), 0644); err != nil {
		return &setupError{err: fmt.Errorf("write test case: %w", err)}
	}

	targetDir := TargetDir(outDir)
	deps, err := r.resolver.Resolve(rootDir, targetDir)
	if err != nil {
		return &setupError{err: fmt.Errorf("resolve dependencies: %w", err)}
	}

	req := CompileRequest{
		Source:      src,
		Binary:      bin,
		Target:      target,
		SearchPaths: []string{targetDir, filepath.Join(targetDir, DepsDir)},
	}
	for _, d := range deps {
		req.Externs = append(req.Externs, Extern{Name: d.LibName, Path: d.Artifact})
	}

	out, err := r.toolchain.Compile(r.ctx, req)
	r.echo("compile", out)
	if err != nil {
		return err
	}
	if mode == ModeCompile {
		return nil
	}

	out, err = r.toolchain.Run(r.ctx, bin, scratch)
	r.echo("run", out)
	return err
}

func (r *Runner) finish(err error) {
	r.t.Helper()
	var setup *setupError
	switch {
	case errors.As(err, &setup):
		r.t.Fatalf("%v", setup.err)
	case r.shouldPanic && err == nil:
		r.t.Fatalf("doc test succeeded but was expected to fail")
	case r.shouldPanic:
		r.t.Logf("doc test failed as expected: %v", err)
	case err != nil:
		r.t.Fatalf("%v", err)
	}
}

func (r *Runner) echo(step string, out Output) {
	if len(out.Stdout) > 0 {
		r.t.Logf("%s stdout:\n%s", step, out.Stdout)
	}
	if len(out.Stderr) > 0 {
		r.t.Logf("%s stderr:\n%s", step, out.Stderr)
	}
}

// setupError marks failures that happen before the toolchain runs; they
// fail the test even when a failure is expected.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }
