package install

import "fmt"

// ValidationError reports malformed or contradictory configuration. It is
// always a caller mistake, never a transient condition.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "invalid configuration: " + e.Msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// MissingArtifactError reports that a file or directory a previous step should
// have produced is absent.
type MissingArtifactError struct {
	Path string
	What string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("missing %s: expected %s to exist", e.What, e.Path)
}
