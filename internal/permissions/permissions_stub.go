//go:build !darwin

package permissions

// CheckAccessibility always succeeds outside macOS.
func CheckAccessibility() (bool, error) {
	return true, nil
}

// EnsurePermissions is a no-op on non-macOS platforms.
func EnsurePermissions() error {
	return nil
}
