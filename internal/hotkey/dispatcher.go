package hotkey

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

// ErrUnknownCombination is reported when a pushed combination has no binding.
var ErrUnknownCombination = errors.New("no callback bound to combination")

type state int

const (
	idle state = iota
	queued
	busy
)

// Options configures a Dispatcher.
type Options struct {
	Logger zerolog.Logger
	// Errors receives every callback failure. Sends never block; a full or
	// nil channel drops the report after it has been logged.
	Errors chan<- error
}

// Dispatcher runs hotkey callbacks one at a time on a single worker. It holds
// at most one pending combination: pushes while an item is queued or in
// flight are dropped, so a burst of the same gesture runs its callback once.
type Dispatcher struct {
	bindings map[string]Callback
	log      zerolog.Logger
	errs     chan<- error

	mu      sync.Mutex
	state   state
	pending string
	wake    chan struct{}
}

// NewDispatcher copies bindings; later changes to the map are not seen.
func NewDispatcher(bindings map[string]Callback, opts Options) *Dispatcher {
	b := make(map[string]Callback, len(bindings))
	for k, v := range bindings {
		b[k] = v
	}
	return &Dispatcher{
		bindings: b,
		log:      opts.Logger,
		errs:     opts.Errors,
		wake:     make(chan struct{}, 1),
	}
}

// Push queues combination if the dispatcher is idle and reports whether it
// was accepted. It never blocks.
func (d *Dispatcher) Push(combination string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != idle {
		d.log.Debug().Str("combination", combination).Msg("Hotkey coalesced")
		return false
	}
	d.state = queued
	d.pending = combination

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

// IsEmpty reports whether nothing is queued or running.
func (d *Dispatcher) IsEmpty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == idle
}

// Run drains the queue until ctx is done. Waiting is interruptible, so
// cancellation returns promptly even when idle. A callback that never
// returns stalls the worker.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.wake:
		}

		d.mu.Lock()
		if d.state != queued {
			d.mu.Unlock()
			continue
		}
		combination := d.pending
		d.pending = ""
		d.state = busy
		d.mu.Unlock()

		d.dispatch(combination)

		d.mu.Lock()
		d.state = idle
		d.mu.Unlock()
	}
}

func (d *Dispatcher) dispatch(combination string) {
	cb, ok := d.bindings[combination]
	if !ok {
		d.report(&CallbackError{Combination: combination, Err: ErrUnknownCombination})
		return
	}

	d.log.Debug().Str("combination", combination).Msg("Dispatching hotkey")
	if err := d.invoke(combination, cb); err != nil {
		d.report(err)
	}
}

func (d *Dispatcher) invoke(combination string, cb Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Bytes("stack", debug.Stack()).Str("combination", combination).Msg("Hotkey callback panicked")
			err = &CallbackError{Combination: combination, Panic: r}
		}
	}()

	if cbErr := cb(); cbErr != nil {
		return &CallbackError{Combination: combination, Err: cbErr}
	}
	return nil
}

func (d *Dispatcher) report(err error) {
	d.log.Error().Err(err).Msg("Unexpected error while handling hotkey")
	if d.errs == nil {
		return
	}
	select {
	case d.errs <- err:
	default:
	}
}
