// Package bindgen drives the binder generator over a project's include
// closure, synthesizes a CMake build description for the generated sources,
// compiles the extension module and verifies it loads.
package bindgen

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceExtensions mark files scanned for include directives and considered
// as compilation units.
var sourceExtensions = map[string]bool{
	".hpp": true,
	".cpp": true,
	".h":   true,
	".hh":  true,
	".cc":  true,
	".c":   true,
}

// CollectSourceFiles enumerates the project source trees for known
// header/source extensions. The result is sorted so every downstream artifact
// is independent of filesystem traversal order.
func CollectSourceFiles(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if sourceExtensions[filepath.Ext(path)] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// CollectIncludes reads every file line by line and keeps the include
// directives, excluding lines containing any of the ignore words (used to
// suppress unstable or environment-specific includes). The result is
// deduplicated and sorted: the closure must be byte-identical across runs and
// machines so the generator and the compilation stay reproducible.
func CollectIncludes(files []string, ignoreWords []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, file := range files {
		fh, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		sc := bufio.NewScanner(fh)
		for sc.Scan() {
			line := sc.Text()
			if !strings.HasPrefix(line, "#include") {
				continue
			}
			if containsAny(line, ignoreWords) {
				continue
			}
			seen[strings.TrimSpace(line)] = struct{}{}
		}
		err = sc.Err()
		fh.Close()
		if err != nil {
			return nil, err
		}
	}
	includes := make([]string, 0, len(seen))
	for inc := range seen {
		includes = append(includes, inc)
	}
	sort.Strings(includes)
	return includes, nil
}

// WriteIncludeClosure writes the closure, one directive per line.
func WriteIncludeClosure(path string, includes []string) error {
	var b strings.Builder
	for _, inc := range includes {
		b.WriteString(inc)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}
