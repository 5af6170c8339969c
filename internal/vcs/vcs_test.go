package vcs

import (
	"context"
	"strings"
	"testing"

	"github.com/danpf/binder/internal/toolexec"
)

// recordingRunner records every command instead of executing it.
type recordingRunner struct {
	commands []toolexec.Command
}

func (r *recordingRunner) Run(ctx context.Context, cmd toolexec.Command) error {
	r.commands = append(r.commands, cmd)
	return nil
}

func (r *recordingRunner) Output(ctx context.Context, cmd toolexec.Command) (string, error) {
	r.commands = append(r.commands, cmd)
	return "", nil
}

func TestCloneBranch(t *testing.T) {
	rec := &recordingRunner{}
	g := New(rec)
	err := g.CloneBranch(context.Background(), "https://example.com/r.git", "v1", "/tmp/dst")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.commands) != 1 {
		t.Fatalf("recorded %d commands, want 1", len(rec.commands))
	}
	got := rec.commands[0].String()
	want := "git clone --depth 1 --branch v1 https://example.com/r.git /tmp/dst"
	if got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestFetchCommit(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingRunner{}
	g := New(rec)
	err := g.FetchCommit(context.Background(), "https://example.com/r.git", "abc123", dir)
	if err != nil {
		t.Fatal(err)
	}
	wantSteps := []string{
		"git init",
		"git remote add origin https://example.com/r.git",
		"git fetch --depth 1 origin abc123",
		"git checkout FETCH_HEAD",
	}
	if len(rec.commands) != len(wantSteps) {
		t.Fatalf("recorded %d commands, want %d", len(rec.commands), len(wantSteps))
	}
	for i, want := range wantSteps {
		if got := rec.commands[i].String(); got != want {
			t.Errorf("step %d = %q, want %q", i, got, want)
		}
		if rec.commands[i].Dir != dir {
			t.Errorf("step %d dir = %q, want %q", i, rec.commands[i].Dir, dir)
		}
	}
}

func TestWithGitPath(t *testing.T) {
	rec := &recordingRunner{}
	g := New(rec, WithGitPath("/opt/git/bin/git"))
	if err := g.CloneBranch(context.Background(), "r", "v1", "d"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rec.commands[0].String(), "/opt/git/bin/git ") {
		t.Errorf("command = %q, want custom git path", rec.commands[0].String())
	}
}
