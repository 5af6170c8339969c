package bindgen

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// cmakeListsTemplate declares one position-independent static library per
// foreign compilation unit and one aggregate pybind11 module target over all
// generated sources, linked against every static library.
var cmakeListsTemplate = template.Must(template.New("CMakeLists.txt").Parse(
	`cmake_minimum_required(VERSION 3.4...3.18)
project({{.ModuleName}})
add_subdirectory("{{.Pybind11Source}}" "${CMAKE_CURRENT_BINARY_DIR}/pybind11_build")

{{range .Libraries -}}
add_library({{.Target}} STATIC ${CMAKE_SOURCE_DIR}/{{.Source}})
set_target_properties({{.Target}} PROPERTIES POSITION_INDEPENDENT_CODE ON)
target_include_directories({{.Target}} PRIVATE {{$.IncludeDirs}})
{{end -}}
pybind11_add_module({{.ModuleName}} MODULE {{.GeneratedSources}})
target_include_directories({{.ModuleName}} PRIVATE {{.IncludeDirs}})
set_target_properties({{.ModuleName}} PROPERTIES POSITION_INDEPENDENT_CODE ON)
target_link_libraries({{.ModuleName}} PRIVATE {{.LinkTargets}})
`))

// BuildDescription is the transient input to build-description synthesis,
// consumed immediately by the compile step.
type BuildDescription struct {
	ModuleName       string
	Pybind11Source   string
	IncludeDirs      []string
	ProjectSources   []string // all collected project files; foreign units become libraries
	GeneratedSources []string // manifest entries, relative to the output directory
}

type libraryTarget struct {
	Target string
	Source string
}

// Libraries returns one static-library target per foreign compilation unit.
func (d *BuildDescription) libraries() []libraryTarget {
	var libs []libraryTarget
	for _, src := range d.ProjectSources {
		if !isForeignUnit(src) {
			continue
		}
		libs = append(libs, libraryTarget{Target: targetName(src), Source: src})
	}
	return libs
}

// WriteFile renders the build description to path (conventionally
// CMakeLists.txt in the working directory).
func (d *BuildDescription) WriteFile(path string) error {
	libs := d.libraries()
	linkTargets := make([]string, len(libs))
	for i, lib := range libs {
		linkTargets[i] = lib.Target
	}
	generated := make([]string, len(d.GeneratedSources))
	for i, src := range d.GeneratedSources {
		generated[i] = "${CMAKE_CURRENT_BINARY_DIR}/" + src
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	return cmakeListsTemplate.Execute(fh, struct {
		ModuleName       string
		Pybind11Source   string
		IncludeDirs      string
		Libraries        []libraryTarget
		GeneratedSources string
		LinkTargets      string
	}{
		ModuleName:       d.ModuleName,
		Pybind11Source:   d.Pybind11Source,
		IncludeDirs:      strings.Join(d.IncludeDirs, " "),
		Libraries:        libs,
		GeneratedSources: strings.Join(generated, " "),
		LinkTargets:      strings.Join(linkTargets, " "),
	})
}

// isForeignUnit reports whether the file is a foreign-language compilation
// unit (any C-family extension: .c, .cc, .cpp, ...).
func isForeignUnit(path string) bool {
	return strings.Contains(filepath.Ext(path), "c")
}

// targetName derives a CMake target name from a source path.
func targetName(source string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ".", "_")
	return r.Replace(source)
}
