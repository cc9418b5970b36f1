package native

import (
	"errors"
	"fmt"
	"sync"

	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/keys"
	"golang.design/x/hotkey"
)

var modifierMap = map[string]hotkey.Modifier{
	keys.Ctrl:  hotkey.ModCtrl,
	keys.Shift: hotkey.ModShift,
	keys.Alt:   hotkey.ModAlt,
	keys.Super: hotkey.ModWin,
}

var hotkeyKeys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,

	keys.Space:  hotkey.KeySpace,
	keys.Enter:  hotkey.KeyReturn,
	keys.Esc:    hotkey.KeyEscape,
	keys.Tab:    hotkey.KeyTab,
	keys.Delete: hotkey.KeyDelete,
	keys.Left:   hotkey.KeyLeft,
	keys.Right:  hotkey.KeyRight,
	keys.Up:     hotkey.KeyUp,
	keys.Down:   hotkey.KeyDown,
}

// hotkeyGrabber registers combinations through RegisterHotKey.
type hotkeyGrabber struct {
	mu   sync.Mutex
	hks  []*hotkey.Hotkey
	done chan struct{}
}

// newGrabber registers and releases a throwaway combination to confirm
// the window system accepts hotkeys.
func newGrabber() (grabber, error) {
	hk := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeyF12)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("test registration: %w", err)
	}
	if err := hk.Unregister(); err != nil {
		return nil, fmt.Errorf("test unregistration: %w", err)
	}
	return &hotkeyGrabber{done: make(chan struct{})}, nil
}

func (g *hotkeyGrabber) check(ks []keys.Key) error {
	_, _, err := hotkeyFor(ks)
	return err
}

func (g *hotkeyGrabber) grab(ks []keys.Key, trigger func()) error {
	mods, key, err := hotkeyFor(ks)
	if err != nil {
		return err
	}
	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return err
	}

	g.mu.Lock()
	g.hks = append(g.hks, hk)
	g.mu.Unlock()
	go g.watch(hk.Keydown(), trigger)
	return nil
}

func (g *hotkeyGrabber) watch(keydown <-chan hotkey.Event, trigger func()) {
	for {
		select {
		case <-g.done:
			return
		case <-keydown:
			trigger()
		}
	}
}

func (g *hotkeyGrabber) close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	select {
	case <-g.done:
		return nil
	default:
		close(g.done)
	}

	var errs []error
	for _, hk := range g.hks {
		if err := hk.Unregister(); err != nil {
			errs = append(errs, err)
		}
	}
	g.hks = nil
	return errors.Join(errs...)
}

func hotkeyFor(ks []keys.Key) ([]hotkey.Modifier, hotkey.Key, error) {
	modKeys, last, err := splitCombination(ks)
	if err != nil {
		return nil, 0, err
	}

	mods := make([]hotkey.Modifier, 0, len(modKeys))
	for _, k := range modKeys {
		mods = append(mods, modifierMap[k.String()])
	}

	name := last.String()
	if r, ok := last.Rune(); ok {
		name = string(lower(r))
	}
	key, ok := hotkeyKeys[name]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", backend.ErrUnknownKey, last)
	}
	return mods, key, nil
}
