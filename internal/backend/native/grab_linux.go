package native

import (
	"fmt"
	"strings"

	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/keys"
	"github.com/robotn/xgb/xproto"
	"github.com/robotn/xgbutil"
	"github.com/robotn/xgbutil/keybind"
	"github.com/robotn/xgbutil/xevent"
)

var x11Modifiers = map[string]string{
	keys.Ctrl:  "Control",
	keys.Shift: "Shift",
	keys.Alt:   "Mod1",
	keys.Super: "Mod4",
}

var x11Keysyms = map[string]string{
	keys.Space:     "space",
	keys.Enter:     "Return",
	keys.Esc:       "Escape",
	keys.Tab:       "Tab",
	keys.Backspace: "BackSpace",
	keys.Delete:    "Delete",
	keys.Insert:    "Insert",
	keys.Home:      "Home",
	keys.End:       "End",
	keys.PageUp:    "Prior",
	keys.PageDown:  "Next",
	keys.Left:      "Left",
	keys.Right:     "Right",
	keys.Up:        "Up",
	keys.Down:      "Down",
}

func init() {
	for i := 1; i <= 12; i++ {
		x11Keysyms[fmt.Sprintf("f%d", i)] = fmt.Sprintf("F%d", i)
	}
}

var x11Symbols = map[rune]string{
	'`':  "grave",
	'-':  "minus",
	'=':  "equal",
	'[':  "bracketleft",
	']':  "bracketright",
	'\\': "backslash",
	';':  "semicolon",
	'\'': "apostrophe",
	',':  "comma",
	'.':  "period",
	'/':  "slash",
}

// x11Grabber takes passive key grabs on the root window and runs the X
// event loop that delivers them.
type x11Grabber struct {
	xu      *xgbutil.XUtil
	stopped chan struct{}
	closed  bool
}

// newGrabber connects to the X server named by DISPLAY and grabs a
// throwaway combination once to confirm passive grabs are accepted.
func newGrabber() (grabber, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	keybind.Initialize(xu)

	noop := keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) {})
	if err := noop.Connect(xu, xu.RootWin(), "Control-Shift-F12", true); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("test grab: %w", err)
	}
	keybind.Detach(xu, xu.RootWin())

	g := &x11Grabber{xu: xu, stopped: make(chan struct{})}
	go func() {
		defer close(g.stopped)
		xevent.Main(xu)
	}()
	return g, nil
}

func (g *x11Grabber) check(ks []keys.Key) error {
	_, err := x11Binding(ks)
	return err
}

func (g *x11Grabber) grab(ks []keys.Key, trigger func()) error {
	binding, err := x11Binding(ks)
	if err != nil {
		return err
	}
	cb := keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) { trigger() })
	return cb.Connect(g.xu, g.xu.RootWin(), binding, true)
}

// close releases every grab and stops the event loop. The loop only
// notices the quit flag after an event arrives, so one is sent to the
// connection's own window.
func (g *x11Grabber) close() error {
	if g.closed {
		return nil
	}
	g.closed = true

	keybind.Detach(g.xu, g.xu.RootWin())
	xevent.Quit(g.xu)
	wake := xproto.ClientMessageEvent{
		Format: 32,
		Window: g.xu.Dummy(),
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{0, 0, 0, 0, 0}),
	}
	if err := xproto.SendEventChecked(g.xu.Conn(), false, g.xu.Dummy(), 0, string(wake.Bytes())).Check(); err != nil {
		return fmt.Errorf("stop X event loop: %w", err)
	}
	<-g.stopped
	g.xu.Conn().Close()
	return nil
}

// x11Binding renders a combination in the "Mod-Mod-KEY" form keybind
// parses. Upper-case letters and shifted symbols add Shift to the base key.
func x11Binding(ks []keys.Key) (string, error) {
	modKeys, last, err := splitCombination(ks)
	if err != nil {
		return "", err
	}

	key, shift, ok := x11Keysym(last)
	if !ok {
		return "", fmt.Errorf("%w: %s", backend.ErrUnknownKey, last)
	}

	parts := make([]string, 0, len(ks)+1)
	for _, k := range modKeys {
		mod := x11Modifiers[k.String()]
		if mod == "Shift" {
			shift = false
		}
		parts = append(parts, mod)
	}
	if shift {
		parts = append(parts, "Shift")
	}
	return strings.Join(append(parts, key), "-"), nil
}

func x11Keysym(k keys.Key) (name string, shift bool, ok bool) {
	if k.Symbolic() {
		name, ok = x11Keysyms[k.String()]
		return name, false, ok
	}

	r, ok := k.Rune()
	if !ok {
		return "", false, false
	}
	if base, shifted := shiftedRunes[r]; shifted {
		r, shift = base, true
	} else if r >= 'A' && r <= 'Z' {
		r, shift = lower(r), true
	}
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return string(r), shift, true
	}
	name, ok = x11Symbols[r]
	return name, shift, ok
}
