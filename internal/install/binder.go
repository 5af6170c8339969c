package install

import (
	"context"

	"github.com/qiniu/x/log"

	"github.com/danpf/binder/internal/envfile"
	"github.com/danpf/binder/internal/vcs"
)

// DefaultBinderRemote hosts the binder generator sources.
const DefaultBinderRemote = "https://github.com/RosettaCommons/binder.git"

// DefaultBinderBranch is the suggested branch when none is pinned.
const DefaultBinderBranch = "master"

// BinderInstaller stages the binder generator sources. Binder is not built on
// its own: the LLVM bootstrap compiles it as a clang-tools-extra subproject,
// so staging the tree is all that happens here.
type BinderInstaller struct {
	spec   SourceSpec
	dir    string
	remote string
	git    *vcs.Git
}

// NewBinderInstaller stages spec into dir (usually <buildDir>/binder). For
// local specs the tree is used in place and dir is ignored.
func NewBinderInstaller(spec SourceSpec, dir, remote string, git *vcs.Git) *BinderInstaller {
	if remote == "" {
		remote = DefaultBinderRemote
	}
	return &BinderInstaller{spec: spec, dir: dir, remote: remote, git: git}
}

func (b *BinderInstaller) Name() string { return "binder" }

// Dir returns the binder checkout root.
func (b *BinderInstaller) Dir() string {
	if b.spec.IsLocal() {
		return b.spec.LocalPath()
	}
	return b.dir
}

// Prepare clones the pinned branch unless the tree is local or already staged.
func (b *BinderInstaller) Prepare(ctx context.Context) error {
	if b.spec.IsLocal() {
		if !dirExists(b.Dir()) {
			return &MissingArtifactError{Path: b.Dir(), What: "binder source tree"}
		}
		return nil
	}
	if dirExists(b.dir) {
		log.Infof("binder: already staged at %s", b.dir)
		return nil
	}
	return b.git.CloneBranch(ctx, b.remote, b.spec.Version(), b.dir)
}

// Install stages if needed and reports where the sources live.
func (b *BinderInstaller) Install(ctx context.Context) ([]envfile.Entry, error) {
	if err := b.Prepare(ctx); err != nil {
		return nil, err
	}
	return []envfile.Entry{
		{Key: "BINDER_SOURCE_DIR", Value: b.Dir()},
		{Key: "BINDER_REF", Value: b.spec.ID()},
	}, nil
}
