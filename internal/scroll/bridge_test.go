package scroll

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const helperEnv = "STASHKEYS_BRIDGE_HELPER"

// TestHelperProcess stands in for the bridge child.
func TestHelperProcess(t *testing.T) {
	switch os.Getenv(helperEnv) {
	case "stdin":
		_, _ = io.Copy(io.Discard, os.Stdin)
		os.Exit(0)
	case "stubborn":
		time.Sleep(time.Minute)
		os.Exit(0)
	}
}

func newHelperBridge(t *testing.T, mode string) *Bridge {
	t.Helper()
	t.Setenv(helperEnv, mode)
	b, err := NewBridge(BridgeOptions{
		Executable: os.Args[0],
		Args:       []string{"-test.run=^TestHelperProcess$"},
		Grace:      200 * time.Millisecond,
		Logger:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	t.Cleanup(func() { _ = b.Stop() })
	return b
}

func TestBridgeStopsOnStdinClose(t *testing.T) {
	b := newHelperBridge(t, "stdin")

	if err := b.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !b.Running() {
		t.Fatal("bridge should be running")
	}

	start := time.Now()
	if err := b.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if b.Running() {
		t.Error("bridge should not be running after stop")
	}
	if elapsed := time.Since(start); elapsed >= 200*time.Millisecond {
		t.Errorf("expected a graceful exit, took %v", elapsed)
	}
}

func TestBridgeKillsStubbornChild(t *testing.T) {
	b := newHelperBridge(t, "stubborn")

	if err := b.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := b.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if b.Running() {
		t.Error("stubborn bridge should have been killed")
	}
}

func TestBridgeStartIsIdempotent(t *testing.T) {
	b := newHelperBridge(t, "stdin")

	if err := b.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	first := b.cmd
	if err := b.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if b.cmd != first {
		t.Error("second start should reuse the running process")
	}
}

func TestBridgeStopWithoutStart(t *testing.T) {
	b := newHelperBridge(t, "stdin")
	if err := b.Stop(); err != nil {
		t.Errorf("expected no-op stop, got %v", err)
	}
}

func TestBridgeStartFailure(t *testing.T) {
	b, err := NewBridge(BridgeOptions{
		Executable: fmt.Sprintf("%s/does-not-exist", t.TempDir()),
		Logger:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	if err := b.Start(); err == nil || !strings.Contains(err.Error(), "start bridge") {
		t.Errorf("expected start error, got %v", err)
	}
	if b.Running() {
		t.Error("failed start should leave nothing running")
	}
}

func TestWatchControlStopsOnEOF(t *testing.T) {
	stopped := make(chan struct{})
	go watchControl(strings.NewReader("ignored"), func() { close(stopped) })

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop was not called at EOF")
	}
}
