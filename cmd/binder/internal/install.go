package internal

import (
	"github.com/spf13/cobra"

	"github.com/danpf/binder/internal/install"
)

var installFlags struct {
	buildPath   string
	compiler    string
	buildMode   string
	jobs        int
	prepareOnly bool

	binderBranch string
	binderSource string
	llvmVersion  string
	llvmSource   string
	pybind11SHA  string
	pybind11Src  string

	binderGitURL   string
	llvmGitURL     string
	pybind11GitURL string
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Bootstrap the binder toolchain into a build directory",
	Long: `Install stages the binder, pybind11 and llvm-project sources, builds the
toolchain twice (first with the system compiler, then with itself) and writes
the ENVFILE environment descriptor into the build directory.`,
	RunE: runInstall,
}

func init() {
	f := installCmd.Flags()
	f.StringVar(&installFlags.buildPath, "build-path", "", "Output directory for binder and its dependencies")
	f.StringVar(&installFlags.compiler, "compiler", "clang", "Compiler family for the initial pass (clang or gcc); the second pass always uses the built clang")
	f.StringVar(&installFlags.buildMode, "build-mode", "Release", "CMake build mode (Release, Debug, MinSizeRel, RelWithDebInfo)")
	f.IntVarP(&installFlags.jobs, "jobs", "j", 1, "Build parallelism; 0 means one job per CPU")
	f.BoolVar(&installFlags.prepareOnly, "prepare-only", false, "Stage sources but skip the build/install phase")

	f.StringVar(&installFlags.binderBranch, "binder-branch", "", "Binder branch to stage (default "+install.DefaultBinderBranch+")")
	f.StringVar(&installFlags.binderSource, "binder-source", "", "Path to a local binder source tree (the whole repository, not its source/ subdirectory)")
	f.StringVar(&installFlags.llvmVersion, "llvm-version", install.DefaultLLVMRelease, "llvm-project release tag to stage")
	f.StringVar(&installFlags.llvmSource, "llvm-source", "", "Path to a local llvm-project source tree")
	f.StringVar(&installFlags.pybind11SHA, "pybind11-sha", install.SupportedPybind11SHA, "pybind11 commit to stage")
	f.StringVar(&installFlags.pybind11Src, "pybind11-source", "", "Path to a local pybind11 source tree")

	f.StringVar(&installFlags.binderGitURL, "binder-git-url", "", "Override the binder git remote")
	f.StringVar(&installFlags.llvmGitURL, "llvm-git-url", "", "Override the llvm-project git remote")
	f.StringVar(&installFlags.pybind11GitURL, "pybind11-git-url", "", "Override the pybind11 git remote")

	installCmd.MarkFlagRequired("build-path")
	installCmd.MarkFlagsMutuallyExclusive("binder-branch", "binder-source")
	installCmd.MarkFlagsOneRequired("binder-branch", "binder-source")
	installCmd.MarkFlagsMutuallyExclusive("llvm-version", "llvm-source")
	installCmd.MarkFlagsMutuallyExclusive("pybind11-sha", "pybind11-source")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	binderSpec, err := sourceSpec(cmd, "binder-branch", installFlags.binderBranch, installFlags.binderSource, "")
	if err != nil {
		return err
	}
	llvmSpec, err := sourceSpec(cmd, "llvm-version", installFlags.llvmVersion, installFlags.llvmSource, install.DefaultLLVMRelease)
	if err != nil {
		return err
	}
	pybind11Spec, err := sourceSpec(cmd, "pybind11-sha", installFlags.pybind11SHA, installFlags.pybind11Src, install.SupportedPybind11SHA)
	if err != nil {
		return err
	}

	config, err := install.NewBuildConfig(installFlags.compiler, installFlags.buildMode, installFlags.jobs)
	if err != nil {
		return err
	}

	orch := install.NewOrchestrator(install.Options{
		BuildDir:       installFlags.buildPath,
		Binder:         binderSpec,
		Pybind11:       pybind11Spec,
		LLVM:           llvmSpec,
		Config:         config,
		BinderRemote:   installFlags.binderGitURL,
		Pybind11Remote: installFlags.pybind11GitURL,
		LLVMRemote:     installFlags.llvmGitURL,
	})

	ctx := cmd.Context()
	if installFlags.prepareOnly {
		return orch.Prepare(ctx)
	}
	return orch.Install(ctx)
}

// sourceSpec resolves a version-vs-local flag pair. A local path wins over an
// untouched version default; the flags themselves are mutually exclusive.
func sourceSpec(cmd *cobra.Command, versionFlag, version, localPath, fallback string) (install.SourceSpec, error) {
	if localPath != "" {
		return install.NewSourceSpec("", localPath)
	}
	if version == "" && !cmd.Flags().Changed(versionFlag) {
		version = fallback
	}
	return install.NewSourceSpec(version, "")
}
