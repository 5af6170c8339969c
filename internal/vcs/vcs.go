// Package vcs stages pinned source trees with git.
package vcs

import (
	"context"
	"fmt"
	"os"

	"github.com/danpf/binder/internal/toolexec"
)

// Git stages source trees from git remotes. All network access is shallow:
// exactly the requested ref, depth 1.
type Git struct {
	git    string
	runner toolexec.Runner
}

// Option configures a Git.
type Option func(*Git)

// WithGitPath sets a custom git executable path.
func WithGitPath(path string) Option {
	return func(g *Git) {
		g.git = path
	}
}

// New creates a Git backed by the given runner.
func New(runner toolexec.Runner, opts ...Option) *Git {
	g := &Git{git: "git", runner: runner}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CloneBranch clones a single branch or tag of remote into dir.
func (g *Git) CloneBranch(ctx context.Context, remote, ref, dir string) error {
	err := g.run(ctx, "", "clone", "--depth", "1", "--branch", ref, remote, dir)
	if err != nil {
		return fmt.Errorf("clone %s@%s: %w", remote, ref, err)
	}
	return nil
}

// FetchCommit materializes a single commit of remote into dir. Unlike clone,
// this works for arbitrary SHAs that no branch or tag points at.
func (g *Git) FetchCommit(ctx context.Context, remote, sha, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	steps := [][]string{
		{"init"},
		{"remote", "add", "origin", remote},
		{"fetch", "--depth", "1", "origin", sha},
		{"checkout", "FETCH_HEAD"},
	}
	for _, args := range steps {
		if err := g.run(ctx, dir, args...); err != nil {
			return fmt.Errorf("fetch %s@%s: %w", remote, sha, err)
		}
	}
	return nil
}

func (g *Git) run(ctx context.Context, dir string, args ...string) error {
	return g.runner.Run(ctx, toolexec.Command{Name: g.git, Args: args, Dir: dir})
}
