package inject

import (
	"context"
	"errors"
	"fmt"

	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/keys"
)

type keySender struct {
	keyer Keyer
}

// New creates a new key sender on top of keyer. A nil keyer yields a sender
// whose operations fail with backend.ErrNoBackend.
func New(keyer Keyer) Injector {
	return &keySender{keyer: keyer}
}

// Write emits text literally
func (s *keySender) Write(ctx context.Context, text string) error {
	if s.keyer == nil {
		return backend.ErrNoBackend
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.keyer.Type(text)
}

// PressAndRelease presses the keys of spec in order and releases them in
// reverse, so "ctrl+c" emits press(ctrl), press(c), release(c), release(ctrl).
func (s *keySender) PressAndRelease(ctx context.Context, spec string) error {
	if s.keyer == nil {
		return backend.ErrNoBackend
	}
	ks, err := keys.Parse(spec)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pressed := make([]keys.Key, 0, len(ks))
	var pressErr error
	for _, k := range ks {
		if err := s.keyer.KeyDown(k); err != nil {
			pressErr = fmt.Errorf("press %s: %w", k, err)
			break
		}
		pressed = append(pressed, k)
	}

	// Release whatever went down, even after a failed press.
	var errs []error
	if pressErr != nil {
		errs = append(errs, pressErr)
	}
	for i := len(pressed) - 1; i >= 0; i-- {
		if err := s.keyer.KeyUp(pressed[i]); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", pressed[i], err))
		}
	}
	return errors.Join(errs...)
}
