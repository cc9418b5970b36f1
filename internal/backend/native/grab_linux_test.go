package native

import (
	"errors"
	"testing"

	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/keys"
	"github.com/rs/zerolog"
)

func TestX11Binding(t *testing.T) {
	tests := []struct {
		combination string
		want        string
	}{
		{"<ctrl>+<shift>+f12", "Control-Shift-F12"},
		{"ctrl+c", "Control-c"},
		{"alt+C", "Mod1-Shift-c"},
		{"<cmd>+<page_up>", "Mod4-Prior"},
		{"ctrl+pgdn", "Control-Next"},
		{"ctrl+?", "Control-Shift-slash"},
		{"shift+?", "Shift-slash"},
		{"ctrl+,", "Control-comma"},
		{"<backspace>", "BackSpace"},
		{"ctrl+enter", "Control-Return"},
	}
	for _, tt := range tests {
		t.Run(tt.combination, func(t *testing.T) {
			ks, err := keys.Parse(tt.combination)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got, err := x11Binding(ks)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestX11BindingRejects(t *testing.T) {
	tests := []struct {
		combination string
		unknown     bool
	}{
		{"ctrl+shift", false},
		{"a+b", false},
		{"ctrl+é", true},
		{"ctrl+bogus", true},
	}
	for _, tt := range tests {
		t.Run(tt.combination, func(t *testing.T) {
			ks, err := keys.Parse(tt.combination)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = x11Binding(ks)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, backend.ErrUnknownKey); got != tt.unknown {
				t.Errorf("errors.Is(ErrUnknownKey) = %v, want %v (err: %v)", got, tt.unknown, err)
			}
		})
	}
}

type stubBackend struct{ backend.Backend }

func (stubBackend) Name() string { return "stub" }

func TestNewWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")

	b, err := New(zerolog.Nop())
	if err == nil {
		_ = b.Close()
		t.Fatal("expected an error without an X display")
	}

	fallback := backend.Constructor{
		Name: "stub",
		New:  func(zerolog.Logger) (backend.Backend, error) { return stubBackend{}, nil },
	}
	b, err = backend.Select([]backend.Constructor{Constructor(), fallback}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if b.Name() != "stub" {
		t.Errorf("expected fallback backend, got %s", b.Name())
	}
}
