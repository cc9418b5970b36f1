package backend

import (
	"errors"
	"testing"

	"github.com/petems/stashkeys/internal/keys"
	"github.com/rs/zerolog"
)

type stubBackend struct{ name string }

func (s *stubBackend) Name() string { return s.name }
func (s *stubBackend) Register(string, func()) error { return nil }
func (s *stubBackend) Listen() error { return nil }
func (s *stubBackend) KeyDown(keys.Key) error { return nil }
func (s *stubBackend) KeyUp(keys.Key) error { return nil }
func (s *stubBackend) Type(string) error { return nil }
func (s *stubBackend) Close() error { return nil }

func failing(name string, err error) Constructor {
	return Constructor{Name: name, New: func(zerolog.Logger) (Backend, error) { return nil, err }}
}

func working(name string, calls *int) Constructor {
	return Constructor{Name: name, New: func(zerolog.Logger) (Backend, error) {
		*calls++
		return &stubBackend{name: name}, nil
	}}
}

func TestSelectFallsBackInOrder(t *testing.T) {
	var bCalls, cCalls int
	ctors := []Constructor{
		failing("native", errors.New("register failed")),
		working("listener", &bCalls),
		working("spare", &cCalls),
	}

	b, err := Select(ctors, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Name() != "listener" {
		t.Errorf("expected listener, got %s", b.Name())
	}
	if bCalls != 1 || cCalls != 0 {
		t.Errorf("expected only the second constructor to run, got %d/%d", bCalls, cCalls)
	}
}

func TestSelectAllFail(t *testing.T) {
	cause := errors.New("no display")
	_, err := Select([]Constructor{
		failing("native", errors.New("not root")),
		failing("listener", cause),
	}, zerolog.Nop())

	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected joined cause, got %v", err)
	}
}

func TestSelectEmpty(t *testing.T) {
	if _, err := Select(nil, zerolog.Nop()); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %v", err)
	}
}

func TestFilter(t *testing.T) {
	var n int
	all := []Constructor{working("native", &n), working("listener", &n)}

	got, err := Filter(all, []string{"listener", "native"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Name != "listener" || got[1].Name != "native" {
		t.Errorf("unexpected order: %s, %s", got[0].Name, got[1].Name)
	}

	if got, _ := Filter(all, nil); len(got) != 2 {
		t.Errorf("empty order should keep all constructors, got %d", len(got))
	}

	if _, err := Filter(all, []string{"bogus"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

type grabbingBackend struct{ stubBackend }

func (grabbingBackend) Exclusive() bool { return true }

func TestSwallows(t *testing.T) {
	if Swallows(&stubBackend{name: "plain"}) {
		t.Error("a backend without Exclusive should not swallow")
	}
	if !Swallows(&grabbingBackend{}) {
		t.Error("an exclusive backend should swallow")
	}
}
