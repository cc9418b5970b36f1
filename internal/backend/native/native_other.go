//go:build !linux && !windows

package native

import (
	"github.com/petems/stashkeys/internal/backend"
	"github.com/rs/zerolog"
)

// Name identifies this backend in configuration.
const Name = "native"

// Constructor returns the selection entry for this backend.
func Constructor() backend.Constructor {
	return backend.Constructor{Name: Name, New: New}
}

// New always fails here; hotkey registration on macOS must happen on the
// main thread, which the daemon does not own.
func New(zerolog.Logger) (backend.Backend, error) {
	return nil, backend.ErrUnsupported
}
