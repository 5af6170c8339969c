package install

import (
	"context"
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"

	"github.com/danpf/binder/internal/envfile"
	"github.com/danpf/binder/internal/toolexec"
	"github.com/danpf/binder/internal/vcs"
)

// Options configures an Orchestrator. Remotes default to the upstream
// repositories when empty.
type Options struct {
	BuildDir string

	Binder   SourceSpec
	Pybind11 SourceSpec
	LLVM     SourceSpec

	Config BuildConfig

	BinderRemote   string
	Pybind11Remote string
	LLVMRemote     string

	// Linker registration overrides, defaulting to the system ldconfig
	// locations. See LLVMInstaller.LinkerConfig.
	LinkerConfDir string
	RuntimeLibDir string

	Runner toolexec.Runner
}

// Orchestrator runs the installers in dependency order and assembles the
// environment descriptor. Binder must be staged before the llvm configure
// step because the clang-tools-extra build manifest is patched to include it;
// pybind11 is independent and only provides headers.
//
// Build directory layout:
//
//	<buildDir>/
//	  binder/                   staged generator sources
//	  pybind11/                 staged header-only binding library
//	  llvm-project/             staged toolchain, build/ and build2/ inside
//	  ENVFILE                   environment descriptor
//	  .binder-fingerprint.json  configuration fingerprint
//	  .lock                     advisory lock for the whole directory
type Orchestrator struct {
	buildDir    string
	installers  []Installer
	envPath     string
	fingerprint fingerprint
}

// NewOrchestrator wires the three installers for one build directory.
func NewOrchestrator(opts Options) *Orchestrator {
	runner := opts.Runner
	if runner == nil {
		runner = toolexec.New()
	}
	git := vcs.New(runner)

	binder := NewBinderInstaller(opts.Binder, filepath.Join(opts.BuildDir, "binder"), opts.BinderRemote, git)
	pybind11 := NewPybind11Installer(opts.Pybind11, filepath.Join(opts.BuildDir, "pybind11"), opts.Pybind11Remote, git)
	llvm := NewLLVMInstaller(opts.LLVM, opts.Config,
		filepath.Join(binder.Dir(), "source"),
		filepath.Join(opts.BuildDir, "llvm-project"),
		opts.LLVMRemote, git, runner)
	llvm.LinkerConfig(opts.LinkerConfDir, opts.RuntimeLibDir)

	return &Orchestrator{
		buildDir:   opts.BuildDir,
		installers: []Installer{binder, pybind11, llvm},
		envPath:    filepath.Join(opts.BuildDir, envfile.Name),
		fingerprint: fingerprint{
			Binder:   opts.Binder.ID(),
			Pybind11: opts.Pybind11.ID(),
			LLVM:     opts.LLVM.ID(),
			Compiler: string(opts.Config.Family),
			Mode:     string(opts.Config.Mode),
		},
	}
}

// EnvFilePath returns where the descriptor is written.
func (o *Orchestrator) EnvFilePath() string { return o.envPath }

// Prepare stages every dependency without building, in install order. Useful
// as a pre-fetch/dry-run step.
func (o *Orchestrator) Prepare(ctx context.Context) error {
	unlock, err := o.begin()
	if err != nil {
		return err
	}
	defer unlock()

	for _, ins := range o.installers {
		log.Infof("preparing %s", ins.Name())
		if err := ins.Prepare(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Install stages and builds every dependency in order, then writes the
// environment descriptor. Any failure aborts the run; nothing is rolled back,
// and a later run against the same directory resumes from what was staged.
func (o *Orchestrator) Install(ctx context.Context) error {
	unlock, err := o.begin()
	if err != nil {
		return err
	}
	defer unlock()

	env := envfile.New()
	for _, ins := range o.installers {
		log.Infof("installing %s", ins.Name())
		entries, err := ins.Install(ctx)
		if err != nil {
			return err
		}
		if err := env.Append(entries...); err != nil {
			return err
		}
	}
	if err := env.WriteFile(o.envPath); err != nil {
		return err
	}
	log.Infof("wrote environment descriptor to %s", o.envPath)
	return nil
}

// begin takes the build-directory lock and verifies the configuration
// fingerprint, creating the directory on first use.
func (o *Orchestrator) begin() (unlock func(), err error) {
	if err := os.MkdirAll(o.buildDir, 0o755); err != nil {
		return nil, err
	}
	unlock, err = lockDir(filepath.Join(o.buildDir, ".lock"))
	if err != nil {
		return nil, err
	}
	if err := o.fingerprint.check(o.buildDir); err != nil {
		unlock()
		return nil, err
	}
	return unlock, nil
}
