//go:build linux || windows

// Package native implements the OS-level backend: hotkeys grabbed from the
// window system and keystrokes injected through the kernel input layer.
// On Linux injection goes through uinput and needs root.
package native

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/keys"
	"github.com/rs/zerolog"
)

// Name identifies this backend in configuration.
const Name = "native"

// grabber takes combinations from the window system. A grabbed
// combination is consumed and never reaches the focused window.
type grabber interface {
	check(ks []keys.Key) error
	grab(ks []keys.Key, trigger func()) error
	close() error
}

type registration struct {
	combination string
	ks          []keys.Key
	trigger     func()
	registered  bool
}

type nativeBackend struct {
	log zerolog.Logger

	mu     sync.Mutex
	grabs  grabber
	kb     keybd_event.KeyBonding
	regs   []*registration
	closed bool
}

// Constructor returns the selection entry for this backend.
func Constructor() backend.Constructor {
	return backend.Constructor{Name: Name, New: New}
}

// New connects to the window system and opens the injection device. Any
// failure means the backend is unavailable.
func New(log zerolog.Logger) (backend.Backend, error) {
	g, err := newGrabber()
	if err != nil {
		return nil, fmt.Errorf("hotkey registration unavailable: %w", err)
	}

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		_ = g.close()
		return nil, fmt.Errorf("open key bonding: %w", err)
	}
	// uinput needs a moment before the new device accepts events.
	if runtime.GOOS == "linux" {
		time.Sleep(2 * time.Second)
	}

	return &nativeBackend{
		log:   log.With().Str("backend", Name).Logger(),
		grabs: g,
		kb:    kb,
	}, nil
}

func (n *nativeBackend) Name() string { return Name }

// Exclusive reports that registered combinations are swallowed.
func (n *nativeBackend) Exclusive() bool { return true }

func (n *nativeBackend) Register(combination string, trigger func()) error {
	ks, err := keys.Parse(combination)
	if err != nil {
		return err
	}
	if err := n.grabs.check(ks); err != nil {
		return fmt.Errorf("register %q: %w", combination, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.regs = append(n.regs, &registration{
		combination: combination,
		ks:          ks,
		trigger:     trigger,
	})
	return nil
}

func (n *nativeBackend) Listen() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var errs []error
	for _, r := range n.regs {
		if r.registered {
			continue
		}
		if err := n.grabs.grab(r.ks, r.trigger); err != nil {
			n.log.Warn().Err(err).Str("combination", r.combination).Msg("Failed to register hotkey")
			errs = append(errs, fmt.Errorf("%s: %w", r.combination, err))
			continue
		}
		r.registered = true
	}
	return errors.Join(errs...)
}

func (n *nativeBackend) KeyDown(k keys.Key) error { return n.toggle(k, true) }

func (n *nativeBackend) KeyUp(k keys.Key) error { return n.toggle(k, false) }

func (n *nativeBackend) toggle(k keys.Key, down bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.kb.Clear()
	switch {
	case k.Modifier():
		setModifier(&n.kb, k.String())
	default:
		code, shift, ok := keyCode(k)
		if !ok {
			return fmt.Errorf("%w: %s", backend.ErrUnknownKey, k)
		}
		n.kb.HasSHIFT(shift)
		n.kb.SetKeys(code)
	}

	if down {
		return n.kb.Press()
	}
	return n.kb.Release()
}

func (n *nativeBackend) Type(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.typeText(text)
}

func (n *nativeBackend) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true
	for _, r := range n.regs {
		r.registered = false
	}
	return n.grabs.close()
}

func setModifier(kb *keybd_event.KeyBonding, name string) {
	switch name {
	case keys.Ctrl:
		kb.HasCTRL(true)
	case keys.Shift:
		kb.HasSHIFT(true)
	case keys.Alt:
		kb.HasALT(true)
	case keys.Super:
		kb.HasSuper(true)
	}
}

// splitCombination separates the modifiers from the final key: every key
// but the last must be a modifier, the last must not be.
func splitCombination(ks []keys.Key) ([]keys.Key, keys.Key, error) {
	last := ks[len(ks)-1]
	if last.Modifier() {
		return nil, keys.Key{}, fmt.Errorf("combination ends with modifier %s", last)
	}
	mods := ks[:len(ks)-1]
	for _, k := range mods {
		if !k.Modifier() {
			return nil, keys.Key{}, fmt.Errorf("%s is not a modifier", k)
		}
	}
	return mods, last, nil
}
