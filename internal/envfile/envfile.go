// Package envfile reads and writes the flat KEY=VALUE environment descriptor
// that hands resolved toolchain paths from the installation stage to the
// binding-generation pipeline.
package envfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Name is the descriptor's file name under the build directory.
const Name = "ENVFILE"

// Entry is a single KEY=VALUE pair.
type Entry struct {
	Key   string
	Value string
}

// File is an ordered, append-only collection of entries with unique keys.
type File struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty descriptor.
func New() *File {
	return &File{index: make(map[string]int)}
}

// Append adds entries in order. A key already present is a defect in whoever
// produced the entries, reported as an error.
func (f *File) Append(entries ...Entry) error {
	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("envfile: empty key")
		}
		if _, ok := f.index[e.Key]; ok {
			return fmt.Errorf("envfile: duplicate key %q", e.Key)
		}
		f.index[e.Key] = len(f.entries)
		f.entries = append(f.entries, e)
	}
	return nil
}

// Entries returns the entries in append order.
func (f *File) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Lookup returns the value for key.
func (f *File) Lookup(key string) (string, bool) {
	i, ok := f.index[key]
	if !ok {
		return "", false
	}
	return f.entries[i].Value, true
}

// WriteFile persists the descriptor as newline-separated KEY=VALUE lines.
func (f *File) WriteFile(path string) error {
	var b strings.Builder
	for _, e := range f.entries {
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(e.Value)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// Read loads a descriptor. Unknown keys are kept as-is; lines without '=' are
// skipped so consumers stay tolerant of future additions.
func Read(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f := New()
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if err := f.Append(Entry{Key: k, Value: v}); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return f, nil
}
