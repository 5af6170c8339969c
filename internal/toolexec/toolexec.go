// Package toolexec runs external build tools and reports their failures as
// structured errors carrying the exact command line and exit code.
package toolexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string            // working directory; empty means the current one
	Env  map[string]string // overrides merged over os.Environ()
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// ToolError reports a non-zero exit (or failure to start) of an external tool.
type ToolError struct {
	Cmd      Command
	ExitCode int // -1 when the process could not be started
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("external tool failed (exit %d): %s", e.ExitCode, e.Cmd)
	}
	return fmt.Sprintf("external tool failed to start: %s: %v", e.Cmd, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Runner executes external commands. Implementations other than the real one
// exist only in tests.
type Runner interface {
	// Run executes cmd, streaming its output, and returns a *ToolError on
	// non-zero exit.
	Run(ctx context.Context, cmd Command) error

	// Output executes cmd and captures its stdout. A non-zero exit is a
	// *ToolError.
	Output(ctx context.Context, cmd Command) (string, error)
}

type execRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// Option configures the runner returned by New.
type Option func(*execRunner)

// WithOutput redirects the streamed stdout/stderr of executed tools.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *execRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// New returns a Runner backed by os/exec.
func New(opts ...Option) Runner {
	r := &execRunner{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *execRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = r.stdout
	c.Stderr = r.stderr
	if len(cmd.Env) > 0 {
		c.Env = mergeEnv(os.Environ(), cmd.Env)
	}
	return wrap(cmd, c.Run())
}

func (r *execRunner) Output(ctx context.Context, cmd Command) (string, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stderr = r.stderr
	if len(cmd.Env) > 0 {
		c.Env = mergeEnv(os.Environ(), cmd.Env)
	}
	out, err := c.Output()
	if err != nil {
		return "", wrap(cmd, err)
	}
	return string(out), nil
}

func wrap(cmd Command, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ToolError{Cmd: cmd, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return &ToolError{Cmd: cmd, ExitCode: -1, Err: err}
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
