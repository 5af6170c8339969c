package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binder.yaml")
	err := os.WriteFile(path, []byte(`
module-name: demo
output-directory: out
project-sources:
  - src
  - vendor/mathlib
config-file: demo.cfg
include-line-ignore-words:
  - internal/abi
`), 0o644)
	require.NoError(t, err)

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "demo", p.ModuleName)
	require.Equal(t, "out", p.OutputDirectory)
	require.Equal(t, []string{"src", "vendor/mathlib"}, p.ProjectSources)
	require.Equal(t, []string{"internal/abi"}, p.IgnoreWords)

	// Fields the file omits fall back to the defaults.
	require.Equal(t, "binder", p.BinderExecutable)
	require.Equal(t, "python3", p.Python)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binder.yaml")
	err := os.WriteFile(path, []byte(`
module-name: demo
binder-executable: /opt/llvm/bin/binder
python: python3.11
`), 0o644)
	require.NoError(t, err)

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/opt/llvm/bin/binder", p.BinderExecutable)
	require.Equal(t, "python3.11", p.Python)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("module-name: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
