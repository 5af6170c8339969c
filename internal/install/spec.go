// Package install bootstraps the binder toolchain: it stages pybind11, binder
// and llvm-project sources, performs the two-pass clang self-build with binder
// patched into clang-tools-extra, and writes the ENVFILE descriptor consumed
// by the binding-generation pipeline.
package install

// SourceSpec is a resolved choice between a pinned version identifier
// (branch, tag or commit SHA, depending on the dependency) and a local source
// tree. Exactly one of the two is set.
type SourceSpec struct {
	version   string
	localPath string
}

// NewSourceSpec validates that exactly one of version and localPath is
// non-empty.
func NewSourceSpec(version, localPath string) (SourceSpec, error) {
	if version != "" && localPath != "" {
		return SourceSpec{}, validationErrorf(
			"need version or source location, not both (version=%q, source=%q)", version, localPath)
	}
	if version == "" && localPath == "" {
		return SourceSpec{}, validationErrorf("need a version or a source location, got neither")
	}
	return SourceSpec{version: version, localPath: localPath}, nil
}

// Version returns the pinned version identifier, empty for local sources.
func (s SourceSpec) Version() string { return s.version }

// LocalPath returns the local source tree path, empty for pinned versions.
func (s SourceSpec) LocalPath() string { return s.localPath }

// IsLocal reports whether the spec points at a local source tree.
func (s SourceSpec) IsLocal() bool { return s.localPath != "" }

// ID returns the provenance key: the pinned version verbatim, or a
// FROM_SOURCE form for local trees. Never used as a filesystem path.
func (s SourceSpec) ID() string {
	if s.version != "" {
		return s.version
	}
	return "FROM_SOURCE_" + s.localPath
}
