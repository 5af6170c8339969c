package install

import (
	"context"
	"path/filepath"

	"github.com/qiniu/x/log"

	"github.com/danpf/binder/internal/envfile"
	"github.com/danpf/binder/internal/vcs"
)

// DefaultPybind11Remote is the fork binder's generated code is tested against.
const DefaultPybind11Remote = "https://github.com/RosettaCommons/pybind11.git"

// SupportedPybind11SHA is the pinned default commit of that fork.
const SupportedPybind11SHA = "32c4d7e17f267e10e71138a78d559b1eef17c909"

// Pybind11Installer stages the pybind11 source tree. pybind11 is header-only,
// so install contributes descriptor entries without a build step.
type Pybind11Installer struct {
	spec   SourceSpec
	dir    string
	remote string
	git    *vcs.Git
}

// NewPybind11Installer stages spec into dir (usually <buildDir>/pybind11).
func NewPybind11Installer(spec SourceSpec, dir, remote string, git *vcs.Git) *Pybind11Installer {
	if remote == "" {
		remote = DefaultPybind11Remote
	}
	return &Pybind11Installer{spec: spec, dir: dir, remote: remote, git: git}
}

func (p *Pybind11Installer) Name() string { return "pybind11" }

// IncludeDir is where downstream compilation finds the pybind11 headers.
func (p *Pybind11Installer) IncludeDir() string { return filepath.Join(p.dir, "include") }

// Prepare materializes the pybind11 tree. A pre-existing include directory
// means a previous run already staged it.
func (p *Pybind11Installer) Prepare(ctx context.Context) error {
	if dirExists(p.IncludeDir()) {
		log.Infof("pybind11: already staged at %s", p.dir)
		return nil
	}
	if p.spec.IsLocal() {
		if err := copyTree(p.spec.LocalPath(), p.dir); err != nil {
			return err
		}
	} else {
		if err := p.git.FetchCommit(ctx, p.remote, p.spec.Version(), p.dir); err != nil {
			return err
		}
	}
	if !dirExists(p.IncludeDir()) {
		return &MissingArtifactError{Path: p.IncludeDir(), What: "pybind11 include directory"}
	}
	return nil
}

// Install stages if needed and reports the header location.
func (p *Pybind11Installer) Install(ctx context.Context) ([]envfile.Entry, error) {
	if err := p.Prepare(ctx); err != nil {
		return nil, err
	}
	return []envfile.Entry{
		{Key: "PYBIND11_INCLUDE_DIR", Value: p.IncludeDir()},
		{Key: "PYBIND11_SHA", Value: p.spec.ID()},
	}, nil
}
