package install

import (
	"context"
	"sync"

	"github.com/danpf/binder/internal/toolexec"
)

// stubRunner records every external command and lets a test hook fake the
// side effects (checkouts, build outputs) a real tool would have.
type stubRunner struct {
	mu       sync.Mutex
	commands []toolexec.Command

	// onRun, if set, is called for every command; returning an error makes
	// the command "fail".
	onRun func(cmd toolexec.Command) error
}

func (r *stubRunner) Run(ctx context.Context, cmd toolexec.Command) error {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()
	if r.onRun != nil {
		return r.onRun(cmd)
	}
	return nil
}

func (r *stubRunner) Output(ctx context.Context, cmd toolexec.Command) (string, error) {
	return "", r.Run(ctx, cmd)
}

// strings returns the recorded command lines.
func (r *stubRunner) strings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commands))
	for i, c := range r.commands {
		out[i] = c.String()
	}
	return out
}
