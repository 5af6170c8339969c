package bindgen

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/danpf/binder/internal/toolexec"
)

// GeneratorInvocation describes one run of the external binder generator.
type GeneratorInvocation struct {
	Binder       string   // generator executable
	ModuleName   string   // root module name
	OutputDir    string   // --prefix directory; also where the manifest lands
	ConfigFile   string
	IncludesFile string   // the aggregated include closure
	IncludeDirs  []string // project sources, platform headers, pybind11 headers
	ExtraFlags   []string
}

// Generate runs the generator and returns the validated generated-source
// manifest entries, relative to the output directory.
func Generate(ctx context.Context, runner toolexec.Runner, inv GeneratorInvocation) ([]string, error) {
	args := []string{
		"--root-module", inv.ModuleName,
		"--prefix", inv.OutputDir,
	}
	args = append(args, inv.ExtraFlags...)
	args = append(args, "--config", inv.ConfigFile, inv.IncludesFile)
	args = append(args, "--", "-std=c++11")
	for _, dir := range inv.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	args = append(args, "-DNDEBUG", "-v")

	cmd := toolexec.Command{Name: inv.Binder, Args: args}
	log.Infof("running %s", cmd)
	if err := runner.Run(ctx, cmd); err != nil {
		return nil, err
	}
	return ReadManifest(filepath.Join(inv.OutputDir, inv.ModuleName+".sources"))
}

// ReadManifest reads a generated-source manifest, one path per line. Every
// entry must be unique; the first duplicate is a fatal NameCollisionError.
func ReadManifest(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingArtifactError{Path: path, What: "generated-source manifest"}
		}
		return nil, err
	}
	defer fh.Close()

	var sources []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if seen[line] {
			return nil, &NameCollisionError{Entry: line, Manifest: path}
		}
		seen[line] = true
		sources = append(sources, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}
