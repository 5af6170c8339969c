// Package tools checks that the external tools the bootstrap and generation
// pipelines shell out to are present and recent enough.
package tools

import (
	"context"
	"os/exec"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/danpf/binder/internal/toolexec"
)

// Definition describes one required external tool.
type Definition struct {
	Name           string
	VersionSwitch  string
	MinimumVersion string // empty means any version is fine
}

// Status is the resolved state of one tool on this machine.
type Status struct {
	Tool      string
	Path      string
	Version   string
	Minimum   string
	Satisfied bool
	Error     string
}

// Required lists the tools the pipelines invoke, with the minimum versions
// the generated build descriptions assume.
func Required() []Definition {
	return []Definition{
		{Name: "git", VersionSwitch: "--version", MinimumVersion: "2.20"},
		{Name: "cmake", VersionSwitch: "--version", MinimumVersion: "3.4"},
		{Name: "ninja", VersionSwitch: "--version", MinimumVersion: "1.10"},
		{Name: "python3", VersionSwitch: "--version"},
		{Name: "ldconfig", VersionSwitch: "--version"},
	}
}

// Detect resolves every required tool.
func Detect(ctx context.Context, runner toolexec.Runner) []Status {
	defs := Required()
	statuses := make([]Status, 0, len(defs))
	for _, def := range defs {
		statuses = append(statuses, detectOne(ctx, runner, def))
	}
	return statuses
}

func detectOne(ctx context.Context, runner toolexec.Runner, def Definition) Status {
	status := Status{Tool: def.Name, Minimum: def.MinimumVersion}

	path, err := exec.LookPath(def.Name)
	if err != nil {
		status.Error = "not found in PATH"
		return status
	}
	status.Path = path

	out, err := runner.Output(ctx, toolexec.Command{Name: def.Name, Args: []string{def.VersionSwitch}})
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Version = parseVersion(out)
	if status.Version == "" {
		status.Error = "could not parse version from: " + strings.TrimSpace(out)
		return status
	}

	status.Satisfied = meetsMinimum(status.Version, def.MinimumVersion)
	if !status.Satisfied {
		status.Error = "version " + status.Version + " below minimum " + def.MinimumVersion
	}
	return status
}

// parseVersion pulls the first dotted numeric token out of a tool's version
// banner ("cmake version 3.22.1", "Python 3.10.6", "1.11.1").
func parseVersion(banner string) string {
	for _, field := range strings.Fields(banner) {
		if v := leadingVersion(field); v != "" {
			return v
		}
	}
	return ""
}

func leadingVersion(s string) string {
	end := 0
	dots := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && end > 0 && dots < 2 {
			dots++
			end++
			continue
		}
		break
	}
	if end == 0 || dots == 0 {
		return ""
	}
	return strings.TrimSuffix(s[:end], ".")
}

func meetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	v := semver.Canonical("v" + version)
	m := semver.Canonical("v" + minimum)
	if v == "" || m == "" {
		return false
	}
	return semver.Compare(v, m) >= 0
}
