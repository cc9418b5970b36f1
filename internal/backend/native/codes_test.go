//go:build linux || windows

package native

import (
	"errors"
	"testing"

	"github.com/micmonay/keybd_event"
	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/keys"
)

func TestRuneCodeCoversPrintableASCII(t *testing.T) {
	for r := ' '; r <= '~'; r++ {
		if _, _, ok := runeCode(r); !ok {
			t.Errorf("no injection code for %q", r)
		}
	}
	for _, r := range "\n\t" {
		if _, _, ok := runeCode(r); !ok {
			t.Errorf("no injection code for %q", r)
		}
	}
}

func TestRuneCodeShift(t *testing.T) {
	tests := []struct {
		r     rune
		code  int
		shift bool
	}{
		{'/', keybd_event.VK_SLASH, false},
		{'?', keybd_event.VK_SLASH, true},
		{',', keybd_event.VK_COMMA, false},
		{'@', keybd_event.VK_2, true},
		{'"', keybd_event.VK_APOSTROPHE, true},
		{'Q', keybd_event.VK_Q, true},
		{'q', keybd_event.VK_Q, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			code, shift, ok := runeCode(tt.r)
			if !ok || code != tt.code || shift != tt.shift {
				t.Errorf("got code=%d shift=%v ok=%v, want code=%d shift=%v", code, shift, ok, tt.code, tt.shift)
			}
		})
	}
}

func TestStrokesForRejectsWholeText(t *testing.T) {
	strokes, err := strokesFor("/hideout, @trade")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(strokes) != len("/hideout, @trade") {
		t.Errorf("expected one stroke per rune, got %d", len(strokes))
	}

	strokes, err = strokesFor("hi, thére")
	if !errors.Is(err, backend.ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
	if strokes != nil {
		t.Error("nothing should be resolved when a rune is unmappable")
	}
}

func TestKeyCode(t *testing.T) {
	code, shift, ok := keyCode(keys.Lookup("left"))
	if !ok || shift || code != keybd_event.VK_LEFT {
		t.Errorf("left: got code=%d shift=%v ok=%v", code, shift, ok)
	}

	code, shift, ok = keyCode(keys.Lookup("Q"))
	if !ok || !shift || code != keybd_event.VK_Q {
		t.Errorf("Q: got code=%d shift=%v ok=%v", code, shift, ok)
	}

	if _, _, ok := keyCode(keys.Lookup("bogus")); ok {
		t.Error("expected bogus to be unmapped")
	}
}
