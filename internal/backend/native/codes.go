//go:build linux || windows

package native

import (
	"fmt"

	"github.com/micmonay/keybd_event"
	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/keys"
)

// runeCodes holds the unshifted characters of a US layout.
var runeCodes = map[rune]int{
	'a': keybd_event.VK_A,
	'b': keybd_event.VK_B,
	'c': keybd_event.VK_C,
	'd': keybd_event.VK_D,
	'e': keybd_event.VK_E,
	'f': keybd_event.VK_F,
	'g': keybd_event.VK_G,
	'h': keybd_event.VK_H,
	'i': keybd_event.VK_I,
	'j': keybd_event.VK_J,
	'k': keybd_event.VK_K,
	'l': keybd_event.VK_L,
	'm': keybd_event.VK_M,
	'n': keybd_event.VK_N,
	'o': keybd_event.VK_O,
	'p': keybd_event.VK_P,
	'q': keybd_event.VK_Q,
	'r': keybd_event.VK_R,
	's': keybd_event.VK_S,
	't': keybd_event.VK_T,
	'u': keybd_event.VK_U,
	'v': keybd_event.VK_V,
	'w': keybd_event.VK_W,
	'x': keybd_event.VK_X,
	'y': keybd_event.VK_Y,
	'z': keybd_event.VK_Z,

	'0': keybd_event.VK_0,
	'1': keybd_event.VK_1,
	'2': keybd_event.VK_2,
	'3': keybd_event.VK_3,
	'4': keybd_event.VK_4,
	'5': keybd_event.VK_5,
	'6': keybd_event.VK_6,
	'7': keybd_event.VK_7,
	'8': keybd_event.VK_8,
	'9': keybd_event.VK_9,

	'`':  keybd_event.VK_GRAVE,
	'-':  keybd_event.VK_MINUS,
	'=':  keybd_event.VK_EQUAL,
	'[':  keybd_event.VK_LEFTBRACE,
	']':  keybd_event.VK_RIGHTBRACE,
	'\\': keybd_event.VK_BACKSLASH,
	';':  keybd_event.VK_SEMICOLON,
	'\'': keybd_event.VK_APOSTROPHE,
	',':  keybd_event.VK_COMMA,
	'.':  keybd_event.VK_DOT,
	'/':  keybd_event.VK_SLASH,

	' ':  keybd_event.VK_SPACE,
	'\n': keybd_event.VK_ENTER,
	'\t': keybd_event.VK_TAB,
}

// shiftedRunes maps shifted symbols to the key that produces them.
var shiftedRunes = map[rune]rune{
	'~': '`',
	'!': '1',
	'@': '2',
	'#': '3',
	'$': '4',
	'%': '5',
	'^': '6',
	'&': '7',
	'*': '8',
	'(': '9',
	')': '0',
	'_': '-',
	'+': '=',
	'{': '[',
	'}': ']',
	'|': '\\',
	':': ';',
	'"': '\'',
	'<': ',',
	'>': '.',
	'?': '/',
}

var symbolicCodes = map[string]int{
	"f1":  keybd_event.VK_F1,
	"f2":  keybd_event.VK_F2,
	"f3":  keybd_event.VK_F3,
	"f4":  keybd_event.VK_F4,
	"f5":  keybd_event.VK_F5,
	"f6":  keybd_event.VK_F6,
	"f7":  keybd_event.VK_F7,
	"f8":  keybd_event.VK_F8,
	"f9":  keybd_event.VK_F9,
	"f10": keybd_event.VK_F10,
	"f11": keybd_event.VK_F11,
	"f12": keybd_event.VK_F12,

	keys.Space:     keybd_event.VK_SPACE,
	keys.Enter:     keybd_event.VK_ENTER,
	keys.Esc:       keybd_event.VK_ESC,
	keys.Tab:       keybd_event.VK_TAB,
	keys.Backspace: keybd_event.VK_BACKSPACE,
	keys.Delete:    keybd_event.VK_DELETE,
	keys.Insert:    keybd_event.VK_INSERT,
	keys.Home:      keybd_event.VK_HOME,
	keys.End:       keybd_event.VK_END,
	keys.PageUp:    keybd_event.VK_PAGEUP,
	keys.PageDown:  keybd_event.VK_PAGEDOWN,
	keys.Left:      keybd_event.VK_LEFT,
	keys.Right:     keybd_event.VK_RIGHT,
	keys.Up:        keybd_event.VK_UP,
	keys.Down:      keybd_event.VK_DOWN,
}

// keyCode resolves a key to an injection code. Literal upper-case letters
// and shifted symbols are typed with shift held.
func keyCode(k keys.Key) (code int, shift bool, ok bool) {
	if k.Symbolic() {
		code, ok = symbolicCodes[k.String()]
		return code, false, ok
	}
	r, ok := k.Rune()
	if !ok {
		return 0, false, false
	}
	return runeCode(r)
}

func runeCode(r rune) (code int, shift bool, ok bool) {
	if r >= 'A' && r <= 'Z' {
		code, ok = runeCodes[lower(r)]
		return code, true, ok
	}
	if base, shifted := shiftedRunes[r]; shifted {
		code, ok = runeCodes[base]
		return code, true, ok
	}
	code, ok = runeCodes[r]
	return code, false, ok
}

type stroke struct {
	code  int
	shift bool
}

// strokesFor resolves every rune of text up front so an unmappable
// character fails the whole call before anything is typed.
func strokesFor(text string) ([]stroke, error) {
	out := make([]stroke, 0, len(text))
	for _, r := range text {
		code, shift, ok := runeCode(r)
		if !ok {
			return nil, unknownRune(r)
		}
		out = append(out, stroke{code: code, shift: shift})
	}
	return out, nil
}

func unknownRune(r rune) error {
	return fmt.Errorf("%w: %q", backend.ErrUnknownKey, r)
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
