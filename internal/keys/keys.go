// Package keys parses hotkey combinations and resolves key tokens against
// the symbolic key table shared by every input backend.
package keys

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Canonical names of the symbolic keys.
const (
	Ctrl      = "ctrl"
	Shift     = "shift"
	Alt       = "alt"
	Super     = "cmd"
	Enter     = "enter"
	Esc       = "esc"
	Tab       = "tab"
	Space     = "space"
	Backspace = "backspace"
	Delete    = "delete"
	Insert    = "insert"
	Home      = "home"
	End       = "end"
	PageUp    = "page_up"
	PageDown  = "page_down"
	Left      = "left"
	Right     = "right"
	Up        = "up"
	Down      = "down"
)

// ErrEmptyCombination is returned for blank combinations or empty tokens.
var ErrEmptyCombination = errors.New("empty key combination")

// aliases maps every accepted spelling to its canonical name.
var aliases = map[string]string{
	"ctrl":      Ctrl,
	"control":   Ctrl,
	"ctrl_l":    Ctrl,
	"shift":     Shift,
	"shift_l":   Shift,
	"alt":       Alt,
	"alt_l":     Alt,
	"option":    Alt,
	"cmd":       Super,
	"super":     Super,
	"win":       Super,
	"windows":   Super,
	"enter":     Enter,
	"return":    Enter,
	"esc":       Esc,
	"escape":    Esc,
	"tab":       Tab,
	"space":     Space,
	"backspace": Backspace,
	"delete":    Delete,
	"del":       Delete,
	"insert":    Insert,
	"home":      Home,
	"end":       End,
	"page_up":   PageUp,
	"pageup":    PageUp,
	"pgup":      PageUp,
	"page_down": PageDown,
	"pagedown":  PageDown,
	"pgdn":      PageDown,
	"left":      Left,
	"right":     Right,
	"up":        Up,
	"down":      Down,
}

func init() {
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("f%d", i)
		aliases[name] = name
	}
}

// Key is a resolved key token. Symbolic keys carry their canonical name;
// anything else is a literal character key.
type Key struct {
	name     string
	symbolic bool
}

// String returns the canonical name of a symbolic key or the literal token.
func (k Key) String() string { return k.name }

// Symbolic reports whether the key was found in the symbolic key table.
func (k Key) Symbolic() bool { return k.symbolic }

// Modifier reports whether the key is ctrl, shift, alt or cmd.
func (k Key) Modifier() bool {
	if !k.symbolic {
		return false
	}
	switch k.name {
	case Ctrl, Shift, Alt, Super:
		return true
	}
	return false
}

// Rune returns the character of a literal single-character key.
func (k Key) Rune() (rune, bool) {
	if k.symbolic || utf8.RuneCountInString(k.name) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(k.name)
	return r, true
}

// Lookup resolves a single token. Tokens missing from the symbolic table
// fall back to a literal character key.
func Lookup(token string) Key {
	t := strings.TrimSpace(token)
	if name, ok := aliases[strings.ToLower(t)]; ok {
		return Key{name: name, symbolic: true}
	}
	if utf8.RuneCountInString(t) == 1 {
		return Key{name: t}
	}
	return Key{name: strings.ToLower(t)}
}

// Normalize strips the bracket decorations used by the canonical external
// format, so "<ctrl>+c" becomes "ctrl+c".
func Normalize(combination string) string {
	r := strings.NewReplacer("<", "", ">", "")
	return strings.TrimSpace(r.Replace(combination))
}

// Split normalizes a combination and returns its tokens in order.
func Split(combination string) ([]string, error) {
	norm := Normalize(combination)
	if norm == "" {
		return nil, ErrEmptyCombination
	}
	if norm == "+" {
		return []string{"+"}, nil
	}

	parts := strings.Split(norm, "+")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyCombination, combination)
		}
		tokens = append(tokens, p)
	}
	return tokens, nil
}

// Parse splits a combination and resolves every token.
func Parse(combination string) ([]Key, error) {
	tokens, err := Split(combination)
	if err != nil {
		return nil, err
	}
	out := make([]Key, len(tokens))
	for i, t := range tokens {
		out[i] = Lookup(t)
	}
	return out, nil
}
