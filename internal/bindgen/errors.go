package bindgen

import "fmt"

// NameCollisionError reports a duplicated entry in the generated-source
// manifest. A module named like one of its own namespaces or classes makes
// the generator overwrite its own output; catching the duplicate here avoids
// chasing a silent miscompile later.
type NameCollisionError struct {
	Entry    string
	Manifest string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("duplicated generated source %q in %s: do not name the module the same as one of its namespaces or classes", e.Entry, e.Manifest)
}

// MissingArtifactError reports that a file a previous step should have
// produced is absent.
type MissingArtifactError struct {
	Path string
	What string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("missing %s: expected %s to exist", e.What, e.Path)
}
