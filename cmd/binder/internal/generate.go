package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/danpf/binder/internal/bindgen"
	"github.com/danpf/binder/internal/config"
	"github.com/danpf/binder/internal/envfile"
	"github.com/danpf/binder/internal/toolexec"
)

var generateFlags struct {
	projectFile string
	envFile     string
	dockerImage string

	outputDir        string
	moduleName       string
	projectSources   []string
	includeDirs      []string
	configFile       string
	extraBinderFlags string
	ignoreWords      []string
	preinstallScript string
	includesFile     string
	pybind11Source   string
	binderExecutable string
	python           string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate, compile and verify pybind11 bindings for a project",
	Long: `Generate collects the project's include closure, runs the binder generator
over it, synthesizes a CMake project for the generated sources, compiles the
extension module and verifies that it can be imported.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateFlags.projectFile, "project-file", "", "YAML project file supplying any of the flags below")
	f.StringVar(&generateFlags.envFile, "envfile", "", "ENVFILE from a previous install; supplies pybind11 and binder locations")
	f.StringVar(&generateFlags.dockerImage, "docker-image", "", "Re-run the pipeline inside this docker image instead of on the host")

	f.StringVar(&generateFlags.outputDir, "output-directory", "", "Directory to build/output the bindings into")
	f.StringVar(&generateFlags.moduleName, "module-name", "", "Name of the generated extension module")
	f.StringSliceVar(&generateFlags.projectSources, "project-sources", nil, "Project source directories")
	f.StringSliceVar(&generateFlags.includeDirs, "source-directories-to-include", nil, "Extra include directories")
	f.StringVar(&generateFlags.configFile, "config-file", "", "Binder config file")
	f.StringVar(&generateFlags.extraBinderFlags, "extra-binder-flags", "", "Extra binder flags (e.g. \"--trace --annotate-includes\")")
	f.StringSliceVar(&generateFlags.ignoreWords, "include-line-ignore-words", nil, "Drop include lines containing any of these substrings")
	f.StringVar(&generateFlags.preinstallScript, "preinstall-script", "", "Shell script to run before the generator")
	f.StringVar(&generateFlags.includesFile, "all-includes-file", "", "Use this pre-built include closure instead of collecting one")
	f.StringVar(&generateFlags.pybind11Source, "pybind11-source", "", "Path to the pybind11 source tree")
	f.StringVar(&generateFlags.binderExecutable, "binder-executable", "", "Binder executable (default: binder from PATH)")
	f.StringVar(&generateFlags.python, "python", "", "Python interpreter for the import smoke test")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	proj, err := resolveProject(cmd)
	if err != nil {
		return err
	}

	if generateFlags.dockerImage != "" {
		return runGenerateInDocker(cmd, proj)
	}

	pipeline, err := bindgen.New(bindgen.Options{
		OutputDir:        proj.OutputDirectory,
		ModuleName:       proj.ModuleName,
		ProjectSources:   proj.ProjectSources,
		ConfigFile:       proj.ConfigFile,
		Pybind11Source:   proj.Pybind11Source,
		ExtraIncludeDirs: proj.IncludeDirs,
		ExtraFlags:       proj.ExtraBinderFlags,
		IgnoreWords:      proj.IgnoreWords,
		IncludesFile:     proj.IncludesFile,
		PreinstallScript: proj.PreinstallScript,
		Binder:           proj.BinderExecutable,
		Python:           proj.Python,
	})
	if err != nil {
		return err
	}
	return pipeline.Run(cmd.Context())
}

// resolveProject layers the configuration: defaults, then the project file,
// then the ENVFILE, then explicit flags.
func resolveProject(cmd *cobra.Command) (config.Project, error) {
	proj := config.Default()
	if generateFlags.projectFile != "" {
		loaded, err := config.Load(generateFlags.projectFile)
		if err != nil {
			return config.Project{}, err
		}
		proj = loaded
	}

	if generateFlags.envFile != "" {
		env, err := envfile.Read(generateFlags.envFile)
		if err != nil {
			return config.Project{}, fmt.Errorf("read envfile: %w", err)
		}
		if include, ok := env.Lookup("PYBIND11_INCLUDE_DIR"); ok && proj.Pybind11Source == "" {
			proj.Pybind11Source = filepath.Dir(include)
		}
		if binDir, ok := env.Lookup("LLVM_BIN_DIR"); ok {
			proj.BinderExecutable = filepath.Join(binDir, "binder")
		}
	}

	flags := cmd.Flags()
	if flags.Changed("output-directory") {
		proj.OutputDirectory = generateFlags.outputDir
	}
	if flags.Changed("module-name") {
		proj.ModuleName = generateFlags.moduleName
	}
	if flags.Changed("project-sources") {
		proj.ProjectSources = generateFlags.projectSources
	}
	if flags.Changed("source-directories-to-include") {
		proj.IncludeDirs = generateFlags.includeDirs
	}
	if flags.Changed("config-file") {
		proj.ConfigFile = generateFlags.configFile
	}
	if flags.Changed("extra-binder-flags") {
		proj.ExtraBinderFlags = strings.Fields(generateFlags.extraBinderFlags)
	}
	if flags.Changed("include-line-ignore-words") {
		proj.IgnoreWords = generateFlags.ignoreWords
	}
	if flags.Changed("preinstall-script") {
		proj.PreinstallScript = generateFlags.preinstallScript
	}
	if flags.Changed("all-includes-file") {
		proj.IncludesFile = generateFlags.includesFile
	}
	if flags.Changed("pybind11-source") {
		proj.Pybind11Source = generateFlags.pybind11Source
	}
	if flags.Changed("binder-executable") {
		proj.BinderExecutable = generateFlags.binderExecutable
	}
	if flags.Changed("python") {
		proj.Python = generateFlags.python
	}
	return proj, nil
}

// runGenerateInDocker re-invokes the same pipeline inside a container, with
// the working directory bind-mounted and the toolchain paths pointing at the
// image's /build install.
func runGenerateInDocker(cmd *cobra.Command, proj config.Project) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	inner := []string{"binder", "generate",
		"--output-directory", proj.OutputDirectory,
		"--module-name", proj.ModuleName,
		"--project-sources", strings.Join(proj.ProjectSources, ","),
		"--config-file", proj.ConfigFile,
		"--pybind11-source", "/build/pybind11",
		"--binder-executable", "binder",
	}
	if len(proj.IncludeDirs) > 0 {
		inner = append(inner, "--source-directories-to-include", strings.Join(proj.IncludeDirs, ","))
	}
	if len(proj.IgnoreWords) > 0 {
		inner = append(inner, "--include-line-ignore-words", strings.Join(proj.IgnoreWords, ","))
	}
	if len(proj.ExtraBinderFlags) > 0 {
		inner = append(inner, "--extra-binder-flags", strings.Join(proj.ExtraBinderFlags, " "))
	}
	if proj.PreinstallScript != "" {
		inner = append(inner, "--preinstall-script", proj.PreinstallScript)
	}
	if proj.IncludesFile != "" {
		inner = append(inner, "--all-includes-file", proj.IncludesFile)
	}

	dockerArgs := []string{"run",
		"--workdir", cwd,
		"-v", cwd + ":" + cwd,
		"-t", generateFlags.dockerImage,
	}
	dockerArgs = append(dockerArgs, inner...)

	c := toolexec.Command{Name: "docker", Args: dockerArgs}
	log.Infof("running %s", c)
	return toolexec.New().Run(cmd.Context(), c)
}
