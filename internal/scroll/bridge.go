package scroll

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultGrace is how long Stop waits for the bridge to unhook and exit
// before killing it.
const DefaultGrace = 500 * time.Millisecond

// ErrUnsupported is returned when the hook bridge cannot run on this platform.
var ErrUnsupported = errors.New("scroll bridge is only supported on windows")

// BridgeOptions configures the parent side of the hook bridge.
type BridgeOptions struct {
	// Executable defaults to the running binary.
	Executable string
	Args       []string
	Grace      time.Duration
	Logger     zerolog.Logger
}

// Bridge spawns and terminates the hook bridge process. The child's stdin
// is its control channel: closing it asks the child to unhook and exit,
// which also happens when the parent dies.
type Bridge struct {
	exe   string
	args  []string
	grace time.Duration
	log   zerolog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	exited chan struct{}
}

// NewBridge resolves the executable but starts nothing.
func NewBridge(opts BridgeOptions) (*Bridge, error) {
	exe := opts.Executable
	if exe == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve executable: %w", err)
		}
		exe = self
	}
	grace := opts.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Bridge{
		exe:   exe,
		args:  opts.Args,
		grace: grace,
		log:   opts.Logger.With().Str("component", "scroll-bridge").Logger(),
	}, nil
}

// Start launches the bridge process. It is a no-op while one is running.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.runningLocked() {
		return nil
	}
	if b.stdin != nil {
		_ = b.stdin.Close()
	}

	cmd := exec.Command(b.exe, b.args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	hideWindow(cmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("bridge stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start bridge: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		err := cmd.Wait()
		b.log.Debug().Err(err).Int("pid", cmd.Process.Pid).Msg("Bridge process exited")
		close(exited)
	}()

	b.cmd, b.stdin, b.exited = cmd, stdin, exited
	b.log.Info().Int("pid", cmd.Process.Pid).Msg("Bridge started")
	return nil
}

// Stop asks the bridge to remove its hooks, then kills it if it has not
// exited within the grace period. It is a no-op when nothing is running.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cmd == nil {
		return nil
	}
	defer func() { b.cmd, b.stdin, b.exited = nil, nil, nil }()

	_ = b.stdin.Close()

	select {
	case <-b.exited:
		return nil
	case <-time.After(b.grace):
	}

	b.log.Warn().Int("pid", b.cmd.Process.Pid).Msg("Bridge did not exit, killing")
	if err := b.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill bridge: %w", err)
	}
	<-b.exited
	return nil
}

// Running reports whether a bridge process is alive.
func (b *Bridge) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runningLocked()
}

func (b *Bridge) runningLocked() bool {
	if b.cmd == nil {
		return false
	}
	select {
	case <-b.exited:
		return false
	default:
		return true
	}
}

// watchControl calls stop once r reaches EOF or fails.
func watchControl(r io.Reader, stop func()) {
	_, _ = io.Copy(io.Discard, r)
	stop()
}
