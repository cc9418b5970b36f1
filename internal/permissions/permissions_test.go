//go:build !darwin

package permissions

import "testing"

func TestStubsGrantAccess(t *testing.T) {
	ok, err := CheckAccessibility()
	if err != nil || !ok {
		t.Fatalf("expected access granted, got ok=%v err=%v", ok, err)
	}
	if err := EnsurePermissions(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
