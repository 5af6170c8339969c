package bindgen

import (
	"context"
	"sync"

	"github.com/danpf/binder/internal/toolexec"
)

// stubRunner records every command and lets tests fake tool side effects.
type stubRunner struct {
	mu       sync.Mutex
	commands []toolexec.Command

	onRun    func(toolexec.Command) error
	onOutput func(toolexec.Command) (string, error)
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
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()
	if r.onOutput != nil {
		return r.onOutput(cmd)
	}
	return "", nil
}

func (r *stubRunner) strings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commands))
	for i, cmd := range r.commands {
		out[i] = cmd.String()
	}
	return out
}
