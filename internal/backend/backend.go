// Package backend defines the input capability providers (global hotkey
// registration plus synthetic key and text injection) and the ordered
// selection between them.
package backend

import (
	"errors"
	"fmt"

	"github.com/petems/stashkeys/internal/keys"
	"github.com/rs/zerolog"
)

var (
	// ErrNoBackend is returned when no backend could be constructed.
	ErrNoBackend = errors.New("no input backend available")
	// ErrUnknownKey is returned when a backend cannot map a key token.
	ErrUnknownKey = errors.New("unknown key")
	// ErrUnsupported is returned by constructors on platforms they do not cover.
	ErrUnsupported = errors.New("backend not supported on this platform")
)

// Backend provides global hotkeys and synthetic input.
type Backend interface {
	Name() string
	// Register stores a combination; trigger runs on every native activation
	// once Listen has been called.
	Register(combination string, trigger func()) error
	// Listen wires every registered combination into the native event source.
	Listen() error
	KeyDown(k keys.Key) error
	KeyUp(k keys.Key) error
	Type(text string) error
	Close() error
}

// Exclusive is implemented by backends that consume registered
// combinations so they never reach the focused window.
type Exclusive interface {
	Exclusive() bool
}

// Swallows reports whether b consumes the combinations registered with it.
func Swallows(b Backend) bool {
	e, ok := b.(Exclusive)
	return ok && e.Exclusive()
}

// Constructor builds one backend variant.
type Constructor struct {
	Name string
	New  func(log zerolog.Logger) (Backend, error)
}

// Select tries each constructor in order and returns the first backend that
// comes up. When all of them fail it returns ErrNoBackend joined with the
// individual causes.
func Select(ctors []Constructor, log zerolog.Logger) (Backend, error) {
	errs := []error{ErrNoBackend}
	for _, c := range ctors {
		b, err := c.New(log)
		if err != nil {
			log.Debug().Err(err).Str("backend", c.Name).Msg("Backend unavailable")
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		log.Info().Str("backend", c.Name).Msg("Input backend selected")
		return b, nil
	}
	return nil, errors.Join(errs...)
}

// Filter returns the constructors named in order, in that order. Unknown
// names are an error.
func Filter(all []Constructor, order []string) ([]Constructor, error) {
	if len(order) == 0 {
		return all, nil
	}
	byName := make(map[string]Constructor, len(all))
	for _, c := range all {
		byName[c.Name] = c
	}
	out := make([]Constructor, 0, len(order))
	for _, name := range order {
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown backend %q", name)
		}
		out = append(out, c)
	}
	return out, nil
}
