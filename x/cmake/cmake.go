// Package cmake wraps the cmake configure/build/install workflow.
package cmake

import (
	"context"
	"os"
	"sort"
	"strconv"

	"github.com/danpf/binder/internal/toolexec"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake drives CMake-based builds through an injected tool runner.
type CMake struct {
	runner     toolexec.Runner
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	jobs       int
	defines    map[string]defineValue
	env        map[string]string
}

// New returns a ready-to-use CMake.
func New(runner toolexec.Runner, sourceDir, buildDir string) *CMake {
	return &CMake{
		runner:    runner,
		sourceDir: sourceDir,
		buildDir:  buildDir,
		defines:   make(map[string]defineValue),
	}
}

// Source overrides the source directory.
func (c *CMake) Source(dir string) { c.sourceDir = dir }

// BuildDir overrides the build directory. Used to start a fresh configure
// without carrying over a previous CMake cache.
func (c *CMake) BuildDir(dir string) { c.buildDir = dir }

// InstallDir sets CMAKE_INSTALL_PREFIX.
func (c *CMake) InstallDir(dir string) { c.installDir = dir }

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Jobs sets the parallelism passed to the native build tool. Zero leaves the
// tool's default.
func (c *CMake) Jobs(n int) { c.jobs = n }

// Compilers sets CMAKE_C_COMPILER and CMAKE_CXX_COMPILER.
func (c *CMake) Compilers(cc, cxx string) {
	if cc != "" {
		c.Define("CMAKE_C_COMPILER", cc)
	}
	if cxx != "" {
		c.Define("CMAKE_CXX_COMPILER", cxx)
	}
}

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
}

// Env sets an environment variable for subsequent cmake invocations.
func (c *CMake) Env(key, value string) {
	if c.env == nil {
		c.env = make(map[string]string)
	}
	c.env[key] = value
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// Build runs "cmake --build <build>", optionally restricted to targets.
func (c *CMake) Build(ctx context.Context, targets ...string) error {
	cmakeArgs := []string{"--build", c.buildDir}
	if c.jobs > 0 {
		cmakeArgs = append(cmakeArgs, "-j", strconv.Itoa(c.jobs))
	}
	if len(targets) > 0 {
		cmakeArgs = append(cmakeArgs, "--target")
		cmakeArgs = append(cmakeArgs, targets...)
	}
	return c.run(ctx, cmakeArgs)
}

// Install runs "cmake --install <build>".
func (c *CMake) Install(ctx context.Context, args ...string) error {
	cmakeArgs := []string{"--install", c.buildDir}
	if c.installDir != "" {
		cmakeArgs = append(cmakeArgs, "--prefix", c.installDir)
	}
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// OutputDir returns installDir if set, otherwise buildDir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

func (c *CMake) run(ctx context.Context, args []string) error {
	return c.runner.Run(ctx, toolexec.Command{Name: "cmake", Args: args, Env: c.env})
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		d := c.defines[k]
		args = append(args, "-D"+k+":"+d.typeName+"="+d.value)
	}
	return args
}
