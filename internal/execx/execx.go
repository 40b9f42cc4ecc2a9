// internal/execx/execx.go

// Package execx runs external tools and captures their diagnostic output.
package execx

import (
	"bytes"
	"context"
	"os/exec"
)

// Result holds the captured output of one tool invocation. Stderr is kept
// as text because it is only ever surfaced in diagnostics.
type Result struct {
	Stdout []byte
	Stderr string
}

// Runner abstracts external-process invocation so tests can script tool
// behavior without ffmpeg or an enhancer binary installed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner invokes tools through os/exec with stderr captured silently
// for error reporting.
type ExecRunner struct{}

// Run executes name with args and waits for it to exit.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return Result{Stdout: stdout.Bytes(), Stderr: stderr.String()}, err
}

// Available reports whether an executable can be resolved on PATH, or at
// the given path when it contains a separator.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
