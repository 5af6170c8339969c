// Package config loads the optional YAML project file for the generate
// command. Flags take precedence over the file, which takes precedence over
// the defaults.
package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Project mirrors the generate command's configuration surface.
type Project struct {
	ModuleName       string   `yaml:"module-name"`
	OutputDirectory  string   `yaml:"output-directory"`
	ProjectSources   []string `yaml:"project-sources"`
	IncludeDirs      []string `yaml:"source-directories-to-include"`
	ConfigFile       string   `yaml:"config-file"`
	ExtraBinderFlags []string `yaml:"extra-binder-flags"`
	IgnoreWords      []string `yaml:"include-line-ignore-words"`
	IncludesFile     string   `yaml:"all-includes-file"`
	PreinstallScript string   `yaml:"preinstall-script"`
	Pybind11Source   string   `yaml:"pybind11-source"`
	BinderExecutable string   `yaml:"binder-executable"`
	Python           string   `yaml:"python"`
}

// Default returns the baseline configuration.
func Default() Project {
	return Project{
		BinderExecutable: "binder",
		Python:           "python3",
	}
}

// Load reads a project file and merges it over the defaults.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, err
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("parse %s: %w", path, err)
	}
	defaults := Default()
	if err := mergo.Merge(&p, defaults); err != nil {
		return Project{}, err
	}
	return p, nil
}
