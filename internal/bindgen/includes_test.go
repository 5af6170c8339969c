package bindgen

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b", "impl.cpp"), "")
	writeFile(t, filepath.Join(dir, "a", "api.hpp"), "")
	writeFile(t, filepath.Join(dir, "a", "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "legacy.c"), "")

	files, err := CollectSourceFiles([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a", "api.hpp"),
		filepath.Join(dir, "b", "impl.cpp"),
		filepath.Join(dir, "legacy.c"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestCollectIncludes(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, filepath.Join(dirA, "api.hpp"),
		"#pragma once\n#include <string>\n#include \"detail/impl.hpp\"\n")
	writeFile(t, filepath.Join(dirB, "impl.cpp"),
		"#include <string>\n#include <vector>\n#include <internal/abi.h>\nint x;\n")

	files, err := CollectSourceFiles([]string{dirA, dirB})
	if err != nil {
		t.Fatal(err)
	}
	includes, err := CollectIncludes(files, []string{"internal/abi"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"#include \"detail/impl.hpp\"",
		"#include <string>",
		"#include <vector>",
	}
	if !reflect.DeepEqual(includes, want) {
		t.Errorf("includes = %v, want %v", includes, want)
	}
}

// The closure must come out byte-identical regardless of the order the source
// trees are listed in.
func TestIncludeClosureDeterminism(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, filepath.Join(dirA, "one.hpp"), "#include <map>\n#include <set>\n")
	writeFile(t, filepath.Join(dirB, "two.hpp"), "#include <array>\n#include <map>\n")

	render := func(dirs []string) string {
		files, err := CollectSourceFiles(dirs)
		if err != nil {
			t.Fatal(err)
		}
		includes, err := CollectIncludes(files, nil)
		if err != nil {
			t.Fatal(err)
		}
		out := filepath.Join(t.TempDir(), "all_includes.hpp")
		if err := WriteIncludeClosure(out, includes); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	first := render([]string{dirA, dirB})
	second := render([]string{dirB, dirA})
	if first != second {
		t.Errorf("closure depends on directory order:\n%q\nvs\n%q", first, second)
	}
	if first != "#include <array>\n#include <map>\n#include <set>\n" {
		t.Errorf("closure = %q", first)
	}
}
