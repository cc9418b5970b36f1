//go:build windows

package inject

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"github.com/petems/stashkeys/internal/keys"
	"golang.org/x/sys/windows"
)

var sendInput = windows.NewLazySystemDLL("user32.dll").NewProc("SendInput")

const (
	inputKeyboard    = 1
	keyeventfKeyup   = 0x0002
	keyeventfUnicode = 0x0004
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte // Padding to match C struct size
}

var virtualKeys = map[string]uint16{
	keys.Ctrl:      0xA2,
	keys.Shift:     0xA0,
	keys.Alt:       0xA4,
	keys.Super:     0x5B,
	keys.Enter:     0x0D,
	keys.Esc:       0x1B,
	keys.Tab:       0x09,
	keys.Space:     0x20,
	keys.Backspace: 0x08,
	keys.Delete:    0x2E,
	keys.Insert:    0x2D,
	keys.Home:      0x24,
	keys.End:       0x23,
	keys.PageUp:    0x21,
	keys.PageDown:  0x22,
	keys.Left:      0x25,
	keys.Up:        0x26,
	keys.Right:     0x27,
	keys.Down:      0x28,
}

func init() {
	for i := 1; i <= 12; i++ {
		virtualKeys[fmt.Sprintf("f%d", i)] = uint16(0x70 + i - 1)
	}
}

// SendInput drives the Win32 SendInput call directly and needs nothing
// beyond user32. Text goes through the unicode path, so any character
// types regardless of keyboard layout.
type SendInput struct{}

func (SendInput) KeyDown(k keys.Key) error { return sendKey(k, 0) }

func (SendInput) KeyUp(k keys.Key) error { return sendKey(k, keyeventfKeyup) }

func (SendInput) Type(text string) error {
	var inputs []input
	for _, u := range utf16.Encode([]rune(text)) {
		inputs = append(inputs,
			input{inputType: inputKeyboard, ki: keyboardInput{wScan: u, dwFlags: keyeventfUnicode}},
			input{inputType: inputKeyboard, ki: keyboardInput{wScan: u, dwFlags: keyeventfUnicode | keyeventfKeyup}},
		)
	}
	return send(inputs)
}

func sendKey(k keys.Key, flags uint32) error {
	if vk, ok := virtualKeys[k.String()]; ok {
		return send([]input{{inputType: inputKeyboard, ki: keyboardInput{wVk: vk, dwFlags: flags}}})
	}
	r, ok := k.Rune()
	if !ok {
		return fmt.Errorf("no virtual key for %s", k)
	}
	units := utf16.Encode([]rune{r})
	inputs := make([]input, 0, len(units))
	for _, u := range units {
		inputs = append(inputs, input{inputType: inputKeyboard, ki: keyboardInput{wScan: u, dwFlags: flags | keyeventfUnicode}})
	}
	return send(inputs)
}

func send(inputs []input) error {
	if len(inputs) == 0 {
		return nil
	}
	ret, _, err := sendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(ret) != len(inputs) {
		return fmt.Errorf("SendInput failed: %w", err)
	}
	return nil
}
