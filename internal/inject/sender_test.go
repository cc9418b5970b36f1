package inject

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/keys"
)

// recordingKeyer records every call in order
type recordingKeyer struct {
	events []string
	failOn string
}

func (r *recordingKeyer) KeyDown(k keys.Key) error {
	if k.String() == r.failOn {
		return errors.New("stuck")
	}
	r.events = append(r.events, "press "+k.String())
	return nil
}

func (r *recordingKeyer) KeyUp(k keys.Key) error {
	r.events = append(r.events, "release "+k.String())
	return nil
}

func (r *recordingKeyer) Type(text string) error {
	r.events = append(r.events, "type "+text)
	return nil
}

func TestPressAndReleaseOrdering(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []string
	}{
		{
			name: "single key",
			spec: "left",
			want: []string{"press left", "release left"},
		},
		{
			name: "two key chord",
			spec: "ctrl+c",
			want: []string{"press ctrl", "press c", "release c", "release ctrl"},
		},
		{
			name: "bracketed chord",
			spec: "<ctrl>+<alt>+d",
			want: []string{"press ctrl", "press alt", "press d", "release d", "release alt", "release ctrl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingKeyer{}
			if err := New(rec).PressAndRelease(context.Background(), tt.spec); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(rec.events, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, rec.events)
			}
		})
	}
}

func TestPressAndReleaseReleasesOnFailure(t *testing.T) {
	rec := &recordingKeyer{failOn: "c"}
	err := New(rec).PressAndRelease(context.Background(), "ctrl+c")
	if err == nil {
		t.Fatal("expected error")
	}
	want := []string{"press ctrl", "release ctrl"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("expected %v, got %v", want, rec.events)
	}
}

func TestPressAndReleaseEmptySpec(t *testing.T) {
	rec := &recordingKeyer{}
	if err := New(rec).PressAndRelease(context.Background(), ""); !errors.Is(err, keys.ErrEmptyCombination) {
		t.Fatalf("expected ErrEmptyCombination, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("expected no events, got %v", rec.events)
	}
}

func TestWrite(t *testing.T) {
	rec := &recordingKeyer{}
	if err := New(rec).Write(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rec.events, []string{"type hello"}) {
		t.Errorf("unexpected events: %v", rec.events)
	}
}

func TestNoBackend(t *testing.T) {
	s := New(nil)
	if err := s.Write(context.Background(), "x"); !errors.Is(err, backend.ErrNoBackend) {
		t.Errorf("Write: expected ErrNoBackend, got %v", err)
	}
	if err := s.PressAndRelease(context.Background(), "x"); !errors.Is(err, backend.ErrNoBackend) {
		t.Errorf("PressAndRelease: expected ErrNoBackend, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recordingKeyer{}
	if err := New(rec).PressAndRelease(ctx, "ctrl+c"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("expected no events, got %v", rec.events)
	}
}
