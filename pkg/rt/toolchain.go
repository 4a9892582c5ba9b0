package rt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Output holds the captured streams of a toolchain step.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Extern links a library name to its compiled artifact.
type Extern struct {
	Name string
	Path string
}

// CompileRequest describes one compiler invocation.
type CompileRequest struct {
	Source      string
	Binary      string
	Target      string // target triple, empty for the host
	SearchPaths []string
	Externs     []Extern
}

// Toolchain compiles and runs doc test programs.
type Toolchain interface {
	Compile(ctx context.Context, req CompileRequest) (Output, error)
	Run(ctx context.Context, binary, dir string) (Output, error)
}

// ExecToolchain invokes an external compiler through os/exec.
type ExecToolchain struct {
	Compiler  string
	ExtraArgs []string
}

// NewExecToolchain creates an ExecToolchain; an empty compiler means "rustc".
func NewExecToolchain(compiler string, extraArgs ...string) *ExecToolchain {
	if compiler == "" {
		compiler = "rustc"
	}
	return &ExecToolchain{Compiler: compiler, ExtraArgs: extraArgs}
}

// Args returns the compiler arguments for req.
func (tc *ExecToolchain) Args(req CompileRequest) []string {
	args := []string{req.Source, "--verbose", "-o", req.Binary, "--crate-type=bin"}
	if req.Target != "" {
		args = append(args, "--target", req.Target)
	}
	for _, p := range req.SearchPaths {
		args = append(args, "-L", p)
	}
	for _, e := range req.Externs {
		args = append(args, "--extern", fmt.Sprintf("%s=%s", e.Name, e.Path))
	}
	return append(args, tc.ExtraArgs...)
}

// Compile runs the compiler on req.Source.
func (tc *ExecToolchain) Compile(ctx context.Context, req CompileRequest) (Output, error) {
	return runCommand(exec.CommandContext(ctx, tc.Compiler, tc.Args(req)...))
}

// Run executes binary with dir as working directory.
func (tc *ExecToolchain) Run(ctx context.Context, binary, dir string) (Output, error) {
	cmd := exec.CommandContext(ctx, binary)
	cmd.Dir = dir
	return runCommand(cmd)
}

func runCommand(cmd *exec.Cmd) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}

	cmdErr := &CommandError{
		Command:  strings.Join(cmd.Args, " "),
		ExitCode: -1,
		Output:   out,
		Cause:    err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}
	return out, cmdErr
}
