//go:build !unix

package install

// Advisory locking is only implemented for unix; elsewhere callers must
// serialize runs themselves.
func lockDir(path string) (unlock func(), err error) {
	return func() {}, nil
}
