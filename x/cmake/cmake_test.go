package cmake

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danpf/binder/internal/toolexec"
)

type recordingRunner struct {
	commands []toolexec.Command
}

func (r *recordingRunner) Run(ctx context.Context, cmd toolexec.Command) error {
	r.commands = append(r.commands, cmd)
	return nil
}

func (r *recordingRunner) Output(ctx context.Context, cmd toolexec.Command) (string, error) {
	r.commands = append(r.commands, cmd)
	return "", nil
}

func (r *recordingRunner) last() string {
	return r.commands[len(r.commands)-1].String()
}

func TestConfigureArgs(t *testing.T) {
	rec := &recordingRunner{}
	buildDir := filepath.Join(t.TempDir(), "build")

	c := New(rec, "llvm", buildDir)
	c.Generator("Ninja")
	c.BuildType("Release")
	c.Compilers("clang", "clang++")
	c.DefineBool("LLVM_ENABLE_RTTI", true)
	if err := c.Configure(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := rec.last()
	for _, want := range []string{
		"cmake -S llvm -B " + buildDir,
		"-G Ninja",
		"-DCMAKE_BUILD_TYPE:STRING=Release",
		"-DCMAKE_C_COMPILER:STRING=clang",
		"-DCMAKE_CXX_COMPILER:STRING=clang++",
		"-DLLVM_ENABLE_RTTI:BOOL=ON",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("configure command %q missing %q", got, want)
		}
	}
}

func TestDefinesArgsSorted(t *testing.T) {
	c := New(&recordingRunner{}, "", "")
	c.Define("ZZZ", "1")
	c.Define("AAA", "2")
	c.DefineBool("MMM", false)

	args := c.definesArgs()
	want := []string{"-DAAA:STRING=2", "-DMMM:BOOL=OFF", "-DZZZ:STRING=1"}
	if len(args) != len(want) {
		t.Fatalf("definesArgs = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("definesArgs[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestBuildWithJobsAndTargets(t *testing.T) {
	rec := &recordingRunner{}
	c := New(rec, "src", "bld")
	c.Jobs(8)
	if err := c.Build(context.Background(), "install-clang", "install-cxx"); err != nil {
		t.Fatal(err)
	}
	want := "cmake --build bld -j 8 --target install-clang install-cxx"
	if got := rec.last(); got != want {
		t.Errorf("build command = %q, want %q", got, want)
	}
}

func TestInstallWithPrefix(t *testing.T) {
	rec := &recordingRunner{}
	c := New(rec, "src", "bld")
	c.InstallDir("/opt/out")
	if err := c.Install(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := "cmake --install bld --prefix /opt/out"
	if got := rec.last(); got != want {
		t.Errorf("install command = %q, want %q", got, want)
	}
}

func TestOutputDir(t *testing.T) {
	c := New(&recordingRunner{}, "src", "bld")
	if got := c.OutputDir(); got != "bld" {
		t.Errorf("OutputDir = %q, want %q", got, "bld")
	}
	c.InstallDir("inst")
	if got := c.OutputDir(); got != "inst" {
		t.Errorf("OutputDir = %q, want %q", got, "inst")
	}
}

func TestEnvPassedToRunner(t *testing.T) {
	rec := &recordingRunner{}
	c := New(rec, "src", filepath.Join(t.TempDir(), "bld"))
	c.Env("CC", "gcc")
	if err := c.Configure(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := rec.commands[0].Env["CC"]; got != "gcc" {
		t.Errorf("Env[CC] = %q, want gcc", got)
	}
}
