package bindgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danpf/binder/internal/toolexec"
)

func TestGenerateCommandLine(t *testing.T) {
	outDir := t.TempDir()
	rec := &stubRunner{
		onRun: func(cmd toolexec.Command) error {
			return os.WriteFile(filepath.Join(outDir, "demo.sources"), []byte("demo.cpp\n"), 0o644)
		},
	}
	sources, err := Generate(context.Background(), rec, GeneratorInvocation{
		Binder:       "binder",
		ModuleName:   "demo",
		OutputDir:    outDir,
		ConfigFile:   "demo.cfg",
		IncludesFile: "/tmp/all_includes.hpp",
		IncludeDirs:  []string{"/src", "/usr/include/python3.10"},
		ExtraFlags:   []string{"--trace"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0] != "demo.cpp" {
		t.Errorf("sources = %v", sources)
	}

	want := "binder --root-module demo --prefix " + outDir +
		" --trace --config demo.cfg /tmp/all_includes.hpp" +
		" -- -std=c++11 -I/src -I/usr/include/python3.10 -DNDEBUG -v"
	if got := rec.strings()[0]; got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestReadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.sources")
	if err := os.WriteFile(path, []byte("demo.cpp\n  demo/std.cpp \n\ndemo_1.cpp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sources, err := ReadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"demo.cpp", "demo/std.cpp", "demo_1.cpp"}
	if strings.Join(sources, ",") != strings.Join(want, ",") {
		t.Errorf("sources = %v, want %v", sources, want)
	}
}

func TestReadManifestDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.sources")
	if err := os.WriteFile(path, []byte("demo.cpp\nother.cpp\ndemo.cpp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadManifest(path)
	var collision *NameCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("error = %v, want *NameCollisionError", err)
	}
	if collision.Entry != "demo.cpp" || collision.Manifest != path {
		t.Errorf("collision = %+v", collision)
	}
}

func TestReadManifestMissing(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "nope.sources"))
	var missing *MissingArtifactError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingArtifactError", err)
	}
}
