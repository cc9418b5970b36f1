package hotkey

import (
	"fmt"
)

// Callback is the handler bound to a combination. Errors and panics are
// reported by the dispatcher and never reach the caller.
type Callback func() error

// CallbackError describes a failed hotkey callback.
type CallbackError struct {
	Combination string
	Err         error
	// Panic holds the recovered value when the callback panicked.
	Panic any
}

func (e *CallbackError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("hotkey %q: callback panicked: %v", e.Combination, e.Panic)
	}
	return fmt.Sprintf("hotkey %q: %v", e.Combination, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }
