package inject

import (
	"context"

	"github.com/petems/stashkeys/internal/keys"
)

// Injector defines the interface for synthetic text and key input
type Injector interface {
	Write(ctx context.Context, text string) error
	PressAndRelease(ctx context.Context, spec string) error
}

// Keyer is the low-level input a backend provides
type Keyer interface {
	KeyDown(k keys.Key) error
	KeyUp(k keys.Key) error
	Type(text string) error
}
