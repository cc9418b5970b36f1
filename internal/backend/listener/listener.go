// Package listener implements the accessibility-level backend: a global
// input listener for hotkeys and a key controller for injection. It needs an
// active display session.
package listener

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-vgo/robotgo"
	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/keys"
	hook "github.com/robotn/gohook"
	"github.com/rs/zerolog"
)

// Name identifies this backend in configuration.
const Name = "listener"

type registration struct {
	combination string
	names       []string
	trigger     func()
}

// gohook keeps its listener in process-global state, so only one
// listenerBackend may be listening at a time.
type listenerBackend struct {
	log zerolog.Logger

	mu        sync.Mutex
	regs      []registration
	listening bool
	done      chan struct{}
}

// Constructor returns the selection entry for this backend.
func Constructor() backend.Constructor {
	return backend.Constructor{Name: Name, New: New}
}

// New fails when there is no display session to listen on.
func New(log zerolog.Logger) (backend.Backend, error) {
	if err := sessionAvailable(); err != nil {
		return nil, err
	}
	return &listenerBackend{
		log:  log.With().Str("backend", Name).Logger(),
		done: make(chan struct{}),
	}, nil
}

func (l *listenerBackend) Name() string { return Name }

func (l *listenerBackend) Register(combination string, trigger func()) error {
	ks, err := keys.Parse(combination)
	if err != nil {
		return err
	}
	names, err := hookNames(ks)
	if err != nil {
		return fmt.Errorf("register %q: %w", combination, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listening {
		return errors.New("listener already started")
	}
	l.regs = append(l.regs, registration{
		combination: combination,
		names:       names,
		trigger:     trigger,
	})
	return nil
}

func (l *listenerBackend) Listen() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listening {
		return nil
	}

	for _, r := range l.regs {
		trigger := r.trigger
		hook.Register(hook.KeyDown, r.names, func(hook.Event) {
			trigger()
		})
		l.log.Debug().Str("combination", r.combination).Strs("keys", r.names).Msg("Hotkey registered")
	}

	s := hook.Start()
	l.listening = true
	go func() {
		<-hook.Process(s)
		close(l.done)
	}()
	return nil
}

func (l *listenerBackend) KeyDown(k keys.Key) error {
	name, err := controllerName(k)
	if err != nil {
		return err
	}
	return robotgo.KeyToggle(name, "down")
}

func (l *listenerBackend) KeyUp(k keys.Key) error {
	name, err := controllerName(k)
	if err != nil {
		return err
	}
	return robotgo.KeyToggle(name, "up")
}

func (l *listenerBackend) Type(text string) error {
	robotgo.TypeStr(text)
	return nil
}

func (l *listenerBackend) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.listening {
		return nil
	}
	hook.End()
	l.listening = false
	<-l.done
	return nil
}

// hookNames converts resolved keys to the listener's key names. gohook
// silently registers unknown names as keycode 0, which never fires, so every
// name is checked against its table.
func hookNames(ks []keys.Key) ([]string, error) {
	out := make([]string, len(ks))
	for i, k := range ks {
		name, ok := hookName(k)
		if !ok {
			return nil, fmt.Errorf("%w: %s", backend.ErrUnknownKey, k)
		}
		out[i] = name
	}
	return out, nil
}

func hookName(k keys.Key) (string, bool) {
	name := k.String()
	if n, ok := hookKeyNames[name]; ok {
		name = n
	}
	if r, ok := k.Rune(); ok && r >= 'A' && r <= 'Z' {
		name = strings.ToLower(name)
	}
	// Shifted symbols share the keycode of their base key.
	if base, ok := hook.Special[name]; ok {
		name = base
	}
	if _, ok := hook.Keycode[name]; !ok {
		return "", false
	}
	return name, true
}

// controllerName converts a key to the controller's key name. Literal keys
// pass through unchanged.
func controllerName(k keys.Key) (string, error) {
	if !k.Symbolic() {
		if _, ok := k.Rune(); !ok {
			return "", fmt.Errorf("%w: %s", backend.ErrUnknownKey, k)
		}
		return k.String(), nil
	}
	if n, ok := controllerKeyNames[k.String()]; ok {
		return n, nil
	}
	return k.String(), nil
}

// hookKeyNames covers names that differ from the keycode table. The table
// has no page up/down, home, end or insert, and its "delete" entry is the
// backspace scan code.
var hookKeyNames = map[string]string{
	keys.Ctrl:      "ctrl",
	keys.Shift:     "shift",
	keys.Alt:       "alt",
	keys.Super:     "cmd",
	keys.Backspace: "delete",
	keys.Delete:    "",
}

var controllerKeyNames = map[string]string{
	keys.Ctrl:     "ctrl",
	keys.Super:    "cmd",
	keys.Esc:      "esc",
	keys.PageUp:   "pageup",
	keys.PageDown: "pagedown",
}
