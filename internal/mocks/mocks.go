// Package mocks provides scriptable fakes for the external tools the
// pipeline shells out to, so tests never need ffmpeg or an enhancer
// binary installed.
package mocks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"framelift/internal/execx"
)

// CommandRunner is a scriptable execx.Runner. Hook decides each call's
// outcome; Delay, when set, stalls the call first to simulate a slow tool.
type CommandRunner struct {
	mu    sync.Mutex
	calls [][]string

	Hook  func(name string, args []string) (execx.Result, error)
	Delay func(name string, args []string) time.Duration
}

// Run records the call and delegates to Hook.
func (r *CommandRunner) Run(ctx context.Context, name string, args ...string) (execx.Result, error) {
	if r.Delay != nil {
		if d := r.Delay(name, args); d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return execx.Result{}, ctx.Err()
			}
		}
	}

	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	if r.Hook == nil {
		return execx.Result{}, nil
	}
	return r.Hook(name, args)
}

// Calls returns every recorded invocation, command name first.
func (r *CommandRunner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Enhancer is a fake pool.Enhancer that copies its input file to the
// output path with a marker appended, which lets tests verify payloads
// were actually replaced. Frames named in FailWith fail instead; Delay,
// when set, simulates non-deterministic completion order.
type Enhancer struct {
	mu    sync.Mutex
	calls []string

	FailWith map[string]string
	Delay    func(name string) time.Duration
}

// Enhance implements the enhancer contract against the real filesystem.
func (e *Enhancer) Enhance(ctx context.Context, inputPath, outputPath string) error {
	name := filepath.Base(outputPath)

	if e.Delay != nil {
		if d := e.Delay(name); d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	e.mu.Lock()
	e.calls = append(e.calls, name)
	e.mu.Unlock()

	if diag, ok := e.FailWith[name]; ok {
		return fmt.Errorf("enhancer failed: exit status 255: %s", diag)
	}

	payload, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, append(payload, []byte(" enhanced")...), 0o644)
}

// Calls returns the frame names enhanced, in completion order.
func (e *Enhancer) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.calls))
	copy(out, e.calls)
	return out
}
