package install

import (
	"context"
	"os"

	"github.com/danpf/binder/internal/envfile"
)

// Installer is the staged lifecycle every dependency goes through.
//
// Prepare materializes inputs (clone, copy, patch) without building. It is
// idempotent: when the target directory already exists the staging work is
// skipped, so a run interrupted downstream can be resumed. Install implies
// Prepare and additionally builds/integrates the dependency, returning its
// contributions to the environment descriptor. There is no rollback.
type Installer interface {
	Name() string
	Prepare(ctx context.Context) error
	Install(ctx context.Context) ([]envfile.Entry, error)
}

// dirExists reports whether path is an existing directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// copyTree copies a source tree into dst, creating dst.
func copyTree(src, dst string) error {
	return os.CopyFS(dst, os.DirFS(src))
}
