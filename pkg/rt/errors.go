package rt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLockfileNotFound is returned when no Cargo.lock exists in either
	// the project root or the target directory's ancestor.
	ErrLockfileNotFound = errors.New("lockfile not found")
	// ErrBadFingerprint is returned for fingerprint files that cannot be decoded.
	ErrBadFingerprint = errors.New("unrecognized fingerprint")
	// ErrNoArtifacts is returned when no locked dependency resolved to a
	// compiled artifact on disk.
	ErrNoArtifacts = errors.New("no compiled artifacts found for locked dependencies")
	// ErrTemplate is returned for templates without exactly one placeholder.
	ErrTemplate = errors.New("invalid template")
)

// CommandError reports a toolchain step that exited unsuccessfully.
type CommandError struct {
	Command  string
	ExitCode int
	Output   Output
	Cause    error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command failed (exit %d): %s", e.ExitCode, e.Command)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if len(e.Output.Stdout) > 0 {
		fmt.Fprintf(&b, "\n--- stdout ---\n%s", e.Output.Stdout)
	}
	if len(e.Output.Stderr) > 0 {
		fmt.Fprintf(&b, "\n--- stderr ---\n%s", e.Output.Stderr)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}
