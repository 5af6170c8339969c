package install

import "runtime"

// CompilerFamily identifies the system compiler pair used for the first
// bootstrap pass.
type CompilerFamily string

// Known compiler families.
const (
	Clang CompilerFamily = "clang"
	GCC   CompilerFamily = "gcc"
)

// BuildMode is a CMAKE_BUILD_TYPE value.
type BuildMode string

// Allowed build modes.
const (
	Release        BuildMode = "Release"
	Debug          BuildMode = "Debug"
	MinSizeRel     BuildMode = "MinSizeRel"
	RelWithDebInfo BuildMode = "RelWithDebInfo"
)

var compilerPairs = map[CompilerFamily][2]string{
	Clang: {"clang", "clang++"},
	GCC:   {"gcc", "g++"},
}

var buildModes = map[BuildMode]bool{
	Release:        true,
	Debug:          true,
	MinSizeRel:     true,
	RelWithDebInfo: true,
}

// BuildConfig fixes the compiler pair, build mode and build-tool parallelism
// for a bootstrap run. The cc/cxx paths are resolved once at construction.
type BuildConfig struct {
	Family CompilerFamily
	CC     string
	CXX    string
	Mode   BuildMode
	Jobs   int
}

// NewBuildConfig validates the compiler family and build mode. jobs == 0
// means one worker per CPU.
func NewBuildConfig(family, mode string, jobs int) (BuildConfig, error) {
	pair, ok := compilerPairs[CompilerFamily(family)]
	if !ok {
		return BuildConfig{}, validationErrorf("unknown compiler family %q (supported: clang, gcc)", family)
	}
	if !buildModes[BuildMode(mode)] {
		return BuildConfig{}, validationErrorf(
			"unknown build mode %q (supported: Release, Debug, MinSizeRel, RelWithDebInfo)", mode)
	}
	if jobs < 0 {
		return BuildConfig{}, validationErrorf("jobs must be >= 0, got %d", jobs)
	}
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}
	return BuildConfig{
		Family: CompilerFamily(family),
		CC:     pair[0],
		CXX:    pair[1],
		Mode:   BuildMode(mode),
		Jobs:   jobs,
	}, nil
}
