package bindgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/danpf/binder/internal/toolexec"
	"github.com/danpf/binder/x/cmake"
)

// Options configures a generation run.
type Options struct {
	OutputDir      string
	ModuleName     string
	ProjectSources []string // one or more project source trees
	ConfigFile     string
	Pybind11Source string // root of the pybind11 tree

	ExtraIncludeDirs []string // extra -I directories for the generator and compile
	ExtraFlags       []string // extra binder flags (e.g. --trace)
	IgnoreWords      []string // drop include lines containing any of these
	IncludesFile     string   // pre-built include closure; skips collection
	PreinstallScript string   // shell script run before the generator

	Binder string // generator executable, "binder" by default
	Python string // interpreter for the import smoke test, "python3" by default

	Runner toolexec.Runner
}

// Pipeline runs include-closure collection, generation, build-description
// synthesis, compilation and the load smoke test, in that order. Every stage
// is fatal on failure; there is no partial success.
type Pipeline struct {
	opts   Options
	runner toolexec.Runner
}

// New validates the options and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	switch {
	case opts.OutputDir == "":
		return nil, fmt.Errorf("bindgen: output directory is required")
	case opts.ModuleName == "":
		return nil, fmt.Errorf("bindgen: module name is required")
	case len(opts.ProjectSources) == 0:
		return nil, fmt.Errorf("bindgen: at least one project source directory is required")
	case opts.ConfigFile == "":
		return nil, fmt.Errorf("bindgen: config file is required")
	case opts.Pybind11Source == "":
		return nil, fmt.Errorf("bindgen: pybind11 source directory is required")
	}
	if opts.Binder == "" {
		opts.Binder = "binder"
	}
	if opts.Python == "" {
		opts.Python = "python3"
	}
	runner := opts.Runner
	if runner == nil {
		runner = toolexec.New()
	}
	return &Pipeline{opts: opts, runner: runner}, nil
}

// Run executes the whole pipeline.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.opts.PreinstallScript != "" {
		err := p.runner.Run(ctx, toolexec.Command{Name: "sh", Args: []string{p.opts.PreinstallScript}})
		if err != nil {
			return err
		}
	}

	// Each run starts from a clean output directory.
	if err := os.RemoveAll(p.opts.OutputDir); err != nil {
		return err
	}
	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return err
	}

	includeDirs, err := p.includeDirs(ctx)
	if err != nil {
		return err
	}

	files, err := CollectSourceFiles(p.opts.ProjectSources)
	if err != nil {
		return err
	}

	includesFile := p.opts.IncludesFile
	if includesFile == "" {
		includes, err := CollectIncludes(files, p.opts.IgnoreWords)
		if err != nil {
			return err
		}
		includesFile = filepath.Join(p.opts.OutputDir, "all_includes.hpp")
		if err := WriteIncludeClosure(includesFile, includes); err != nil {
			return err
		}
		log.Infof("wrote %d includes to %s", len(includes), includesFile)
	}
	if includesFile, err = filepath.Abs(includesFile); err != nil {
		return err
	}

	generated, err := Generate(ctx, p.runner, GeneratorInvocation{
		Binder:       p.opts.Binder,
		ModuleName:   p.opts.ModuleName,
		OutputDir:    p.opts.OutputDir,
		ConfigFile:   p.opts.ConfigFile,
		IncludesFile: includesFile,
		IncludeDirs:  includeDirs,
		ExtraFlags:   p.opts.ExtraFlags,
	})
	if err != nil {
		return err
	}
	log.Infof("generator produced %d sources", len(generated))

	desc := &BuildDescription{
		ModuleName:       p.opts.ModuleName,
		Pybind11Source:   p.opts.Pybind11Source,
		IncludeDirs:      includeDirs,
		ProjectSources:   files,
		GeneratedSources: generated,
	}
	if err := desc.WriteFile("CMakeLists.txt"); err != nil {
		return err
	}

	if err := p.compile(ctx); err != nil {
		return err
	}
	return p.verify(ctx)
}

// includeDirs resolves the three-way include split: project sources, platform
// (Python) headers, and the pybind11 headers, plus any caller extras.
func (p *Pipeline) includeDirs(ctx context.Context) ([]string, error) {
	dirs := append([]string{}, p.opts.ProjectSources...)

	pyInclude, err := p.runner.Output(ctx, toolexec.Command{
		Name: p.opts.Python,
		Args: []string{"-c", "import sysconfig; print(sysconfig.get_paths()['include'])"},
	})
	if err != nil {
		return nil, fmt.Errorf("locate python headers: %w", err)
	}
	dirs = append(dirs, strings.TrimSpace(pyInclude))
	dirs = append(dirs, filepath.Join(p.opts.Pybind11Source, "include"))
	dirs = append(dirs, p.opts.ExtraIncludeDirs...)

	for i, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dirs[i] = abs
	}
	return dirs, nil
}

// compile configures and builds the synthesized project with the bootstrapped
// clang pair. A non-zero exit from either step aborts the pipeline.
func (p *Pipeline) compile(ctx context.Context) error {
	cm := cmake.New(p.runner, ".", p.opts.OutputDir)
	cm.Generator("Ninja")
	cm.Compilers("clang", "clang++")
	if err := cm.Configure(ctx); err != nil {
		return err
	}
	return cm.Build(ctx)
}

// verify imports the built module by name. An import failure is the
// pipeline's final observable result, never swallowed.
func (p *Pipeline) verify(ctx context.Context) error {
	log.Infof("testing import of %s", p.opts.ModuleName)
	script := fmt.Sprintf(
		"import sys; sys.path.insert(0, %q); import %s; print(dir(%s))",
		p.opts.OutputDir, p.opts.ModuleName, p.opts.ModuleName)
	err := p.runner.Run(ctx, toolexec.Command{Name: p.opts.Python, Args: []string{"-c", script}})
	if err != nil {
		return fmt.Errorf("built module %q failed to load: %w", p.opts.ModuleName, err)
	}
	return nil
}
