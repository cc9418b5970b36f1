// Package scroll rewrites ctrl+wheel over the game window into left/right
// key presses. The hooks run in a separate bridge process so the blocking
// native message loop and raw hook callbacks stay out of the main process.
package scroll

import (
	"context"

	"github.com/petems/stashkeys/internal/keys"
	"github.com/rs/zerolog"
)

// DefaultWindowTitle is the foreground window the gesture applies to.
const DefaultWindowTitle = "Path of Exile"

// Window messages and virtual keys seen by the low-level hooks.
const (
	WMKeyDown    = 0x0100
	WMKeyUp      = 0x0101
	WMMouseWheel = 0x020A

	VKLControl = 0xA2
)

// Action tells the hook what to return to the OS.
type Action int

const (
	// PassThrough hands the event to the next hook.
	PassThrough Action = iota
	// Suppress swallows the event so the foreground application never sees it.
	Suppress
)

// Presser emits a key press and release for a key spec.
type Presser interface {
	PressAndRelease(ctx context.Context, spec string) error
}

// Translator holds the modifier state and classifies wheel events. It is
// only touched from the hook thread and needs no locking.
type Translator struct {
	title      string
	foreground func() string
	presser    Presser
	log        zerolog.Logger

	held bool
}

// NewTranslator matches foreground() against title by exact equality.
func NewTranslator(title string, foreground func() string, presser Presser, log zerolog.Logger) *Translator {
	return &Translator{
		title:      title,
		foreground: foreground,
		presser:    presser,
		log:        log,
	}
}

// ModifierHeld reports whether left control is down.
func (t *Translator) ModifierHeld() bool { return t.held }

// OnKeyboard tracks left control while the target window is in front.
// Keyboard events always pass through.
func (t *Translator) OnKeyboard(msg uint32, vk uint32) Action {
	if vk != VKLControl || t.foreground() != t.title {
		return PassThrough
	}
	switch msg {
	case WMKeyDown:
		t.held = true
	case WMKeyUp:
		t.held = false
	}
	return PassThrough
}

// OnMouse turns a wheel notch into "left" (away from the user) or "right"
// (towards the user) while control is held over the target window.
func (t *Translator) OnMouse(msg uint32, delta int16) Action {
	if msg != WMMouseWheel || !t.held || delta == 0 {
		return PassThrough
	}
	if t.foreground() != t.title {
		return PassThrough
	}

	key := keys.Left
	if delta < 0 {
		key = keys.Right
	}
	if err := t.presser.PressAndRelease(context.Background(), key); err != nil {
		t.log.Warn().Err(err).Str("key", key).Msg("Failed to send scroll key")
	}
	return Suppress
}

// wheelDelta extracts the signed wheel delta from the high word of
// MSLLHOOKSTRUCT.mouseData.
func wheelDelta(mouseData uint32) int16 {
	return int16(uint16(mouseData >> 16))
}
