//go:build windows

package trash

// checkMounted is a no-op on Windows; drive availability is covered by the
// write probe in EnsureRoot.
func checkMounted(path string) error {
	return nil
}
