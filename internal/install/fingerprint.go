package install

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const fingerprintFile = ".binder-fingerprint.json"

// fingerprint pins the configuration a build directory was materialized with.
// Reusing a directory under a different configuration would mix incompatible
// partial state (for example a toolchain build tree configured for another
// compiler), so a mismatch is rejected instead of silently reused.
type fingerprint struct {
	Binder   string `json:"binder"`
	Pybind11 string `json:"pybind11"`
	LLVM     string `json:"llvm"`
	Compiler string `json:"compiler"`
	Mode     string `json:"build_mode"`
}

// check compares against the fingerprint stored in buildDir, writing it on
// first use.
func (f fingerprint) check(buildDir string) error {
	path := filepath.Join(buildDir, fingerprintFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		out, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, out, 0o644)
	}
	if err != nil {
		return err
	}
	var stored fingerprint
	if err := json.Unmarshal(data, &stored); err != nil {
		return validationErrorf("corrupt fingerprint file %s: %v", path, err)
	}
	if stored != f {
		return validationErrorf(
			"build directory %s was materialized with a different configuration (stored %+v, requested %+v); use a fresh directory",
			buildDir, stored, f)
	}
	return nil
}
