package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"

	"github.com/danpf/binder/internal/envfile"
	"github.com/danpf/binder/internal/toolexec"
	"github.com/danpf/binder/internal/vcs"
	"github.com/danpf/binder/x/cmake"
)

// DefaultLLVMRemote hosts the llvm-project monorepo.
const DefaultLLVMRemote = "https://github.com/llvm/llvm-project.git"

// DefaultLLVMRelease is the toolchain release binder is validated against.
const DefaultLLVMRelease = "llvmorg-13.0.1"

// binderSubdir is where binder lands inside clang-tools-extra.
const binderSubdir = "binder"

// LLVMInstaller stages llvm-project with binder grafted into clang-tools-extra
// and bootstraps the toolchain in two passes: first with the system compiler,
// then again with the clang that pass one installed. Two passes are required
// because the final toolchain must be built by itself to get a consistent
// runtime/ABI, and no such compiler exists before pass one.
type LLVMInstaller struct {
	spec         SourceSpec
	config       BuildConfig
	binderSource string // binder's "source" subdirectory, staged beforehand
	baseDir      string // llvm-project checkout root
	remote       string

	git    *vcs.Git
	runner toolexec.Runner

	// Overridable for tests; defaults target the system dynamic linker.
	ldconfDir     string
	runtimeLibDir string
}

// NewLLVMInstaller builds an installer staging spec into baseDir (usually
// <buildDir>/llvm-project). binderSource must point at the binder sources that
// get grafted into the clang-tools-extra tree.
func NewLLVMInstaller(spec SourceSpec, config BuildConfig, binderSource, baseDir, remote string,
	git *vcs.Git, runner toolexec.Runner) *LLVMInstaller {
	if remote == "" {
		remote = DefaultLLVMRemote
	}
	return &LLVMInstaller{
		spec:          spec,
		config:        config,
		binderSource:  binderSource,
		baseDir:       baseDir,
		remote:        remote,
		git:           git,
		runner:        runner,
		ldconfDir:     "/etc/ld.so.conf.d",
		runtimeLibDir: "/usr/local/lib/x86_64-unknown-linux-gnu",
	}
}

func (l *LLVMInstaller) Name() string { return "llvm" }

// LinkerConfig overrides where the runtime library path is registered with
// the dynamic linker. Useful when installing without root or into a chroot.
func (l *LLVMInstaller) LinkerConfig(confDir, runtimeLibDir string) {
	if confDir != "" {
		l.ldconfDir = confDir
	}
	if runtimeLibDir != "" {
		l.runtimeLibDir = runtimeLibDir
	}
}

func (l *LLVMInstaller) buildDir(pass int) string {
	if pass == 1 {
		return filepath.Join(l.baseDir, "build")
	}
	return filepath.Join(l.baseDir, fmt.Sprintf("build%d", pass))
}

// BinDir is where the self-consistent (pass two) compiler binaries land.
func (l *LLVMInstaller) BinDir() string { return filepath.Join(l.buildDir(2), "bin") }

func (l *LLVMInstaller) clangToolsExtra() string {
	return filepath.Join(l.baseDir, "clang-tools-extra")
}

// Prepare stages llvm-project and grafts binder into it. The graft happens
// only on a fresh checkout so repeated runs do not duplicate the
// add_subdirectory line.
func (l *LLVMInstaller) Prepare(ctx context.Context) error {
	if !dirExists(l.binderSource) {
		return &MissingArtifactError{Path: l.binderSource, What: "binder sources (stage binder before llvm)"}
	}
	if dirExists(l.baseDir) {
		log.Infof("llvm: already staged at %s", l.baseDir)
		return nil
	}
	if l.spec.IsLocal() {
		if err := copyTree(l.spec.LocalPath(), l.baseDir); err != nil {
			return err
		}
	} else {
		if err := l.git.CloneBranch(ctx, l.remote, l.spec.Version(), l.baseDir); err != nil {
			return err
		}
	}
	if err := copyTree(l.binderSource, filepath.Join(l.clangToolsExtra(), binderSubdir)); err != nil {
		return fmt.Errorf("graft binder into clang-tools-extra: %w", err)
	}
	cmakeLists := filepath.Join(l.clangToolsExtra(), "CMakeLists.txt")
	fh, err := os.OpenFile(cmakeLists, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("patch %s: %w", cmakeLists, err)
	}
	defer fh.Close()
	if _, err := fmt.Fprintf(fh, "\nadd_subdirectory(%s)\n", binderSubdir); err != nil {
		return fmt.Errorf("patch %s: %w", cmakeLists, err)
	}
	return nil
}

// Install runs the two bootstrap passes. Any failing configure, build or
// install step aborts the whole bootstrap; there is no partial continuation
// between passes.
func (l *LLVMInstaller) Install(ctx context.Context) ([]envfile.Entry, error) {
	if err := l.Prepare(ctx); err != nil {
		return nil, err
	}

	log.Infof("llvm: bootstrap pass 1 (%s/%s)", l.config.CC, l.config.CXX)
	if err := l.runPass(ctx, l.buildDir(1), l.config.CC, l.config.CXX); err != nil {
		return nil, err
	}
	if err := l.registerRuntimePath(ctx); err != nil {
		return nil, err
	}

	// Pass 2 must use the clang that pass 1 installed into the system, not
	// the build-tree binary: the freshly installed runtime has to be the one
	// the compiler resolves.
	log.Infof("llvm: bootstrap pass 2 (self-hosted clang)")
	if err := l.runPass(ctx, l.buildDir(2), "clang", "clang++"); err != nil {
		return nil, err
	}

	return []envfile.Entry{
		{Key: "LLVM_BIN_DIR", Value: l.BinDir()},
		{Key: "LLVM_VERSION", Value: l.spec.ID()},
	}, nil
}

// runPass configures, builds and installs the toolchain once in buildDir.
func (l *LLVMInstaller) runPass(ctx context.Context, buildDir, cc, cxx string) error {
	cm := cmake.New(l.runner, filepath.Join(l.baseDir, "llvm"), buildDir)
	cm.Generator("Ninja")
	cm.BuildType(string(l.config.Mode))
	cm.Jobs(l.config.Jobs)
	cm.Compilers(cc, cxx)
	cm.DefineBool("LLVM_ENABLE_LIBCXX", true)
	cm.DefineBool("LLVM_INCLUDE_TESTS", false)
	cm.Define("LLVM_ENABLE_RUNTIMES", "libc;libcxx;libcxxabi")
	cm.Define("LLVM_ENABLE_PROJECTS", "clang-tools-extra;clang")
	cm.Define("LLVM_ENABLE_EH", "1")
	cm.DefineBool("LLVM_ENABLE_RTTI", true)

	if err := cm.Configure(ctx); err != nil {
		return err
	}
	if err := cm.Build(ctx); err != nil {
		return err
	}
	return cm.Build(ctx,
		"install-clang-resource-headers",
		"install-cxx",
		"install-cxxabi",
		"install-clang",
		"tools/clang/tools/extra/binder/install",
		"install-clang-headers",
	)
}

// registerRuntimePath adds the freshly installed runtime library directory to
// the dynamic linker's search configuration so pass two (and every later
// compiler invocation) resolves it.
func (l *LLVMInstaller) registerRuntimePath(ctx context.Context) error {
	if err := os.MkdirAll(l.ldconfDir, 0o755); err != nil {
		return err
	}
	conf := filepath.Join(l.ldconfDir, "binder-libcxx.conf")
	if err := os.WriteFile(conf, []byte(l.runtimeLibDir+"\n"), 0o644); err != nil {
		return err
	}
	return l.runner.Run(ctx, toolexec.Command{Name: "ldconfig"})
}
