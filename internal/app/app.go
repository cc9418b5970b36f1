// Package app wires the input subsystem into a single Keyboard value that
// collaborators hold for the life of the process.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/clipboard"
	"github.com/petems/stashkeys/internal/hotkey"
	"github.com/petems/stashkeys/internal/inject"
	"github.com/petems/stashkeys/internal/keys"
	"github.com/petems/stashkeys/internal/scroll"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ClipboardHotkey copies the current selection.
const ClipboardHotkey = "<ctrl>+c"

// ErrStarted is returned when bindings change after Start.
var ErrStarted = errors.New("keyboard already started")

type Config struct {
	// Backends are tried in order; the first that constructs wins.
	Backends []backend.Constructor
	// Clipboard is optional. Without it no poller runs.
	Clipboard      clipboard.Source
	PollInterval   time.Duration
	ClearClipboard bool
	// Bridge is optional and only used when ScrollEnabled is set.
	Bridge        *scroll.Bridge
	ScrollEnabled bool
	Logger        zerolog.Logger
	// Errors receives hotkey callback failures. Optional.
	Errors chan<- error
}

// Keyboard owns the selected backend, the hotkey bindings, the dispatcher,
// the clipboard poller and the scroll bridge.
type Keyboard struct {
	cfg     Config
	log     zerolog.Logger
	backend backend.Backend
	sender  inject.Injector

	mu            sync.Mutex
	bindings      map[string]hotkey.Callback
	onClipboard   func(string)
	shouldProcess func() bool
	dispatcher    *hotkey.Dispatcher
	group         *errgroup.Group
	started       bool
}

// New selects a backend. When none is available the Keyboard still works
// for clipboard polling but cannot deliver hotkeys or send keys.
func New(cfg Config) *Keyboard {
	log := cfg.Logger
	b, err := backend.Select(cfg.Backends, log)
	if err != nil {
		log.Warn().Err(err).Msg("No input backend available, hotkeys disabled")
		b = nil
	}

	return &Keyboard{
		cfg:      cfg,
		log:      log,
		backend:  b,
		sender:   inject.New(b),
		bindings: make(map[string]hotkey.Callback),
	}
}

// BackendName returns the selected backend or "" when there is none.
func (k *Keyboard) BackendName() string {
	if k.backend == nil {
		return ""
	}
	return k.backend.Name()
}

// AddHotkey binds combination to cb. Registering the same combination again
// replaces the callback.
func (k *Keyboard) AddHotkey(combination string, cb hotkey.Callback) error {
	if _, err := keys.Parse(combination); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.started {
		return ErrStarted
	}
	k.bindings[combination] = cb
	return nil
}

// SetClipboardCallback sets the receiver of clipboard changes. The poller
// only delivers while no hotkey callback is queued or running and
// shouldProcess (if non-nil) returns true.
func (k *Keyboard) SetClipboardCallback(cb func(text string), shouldProcess func() bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.started {
		return ErrStarted
	}
	k.onClipboard = cb
	k.shouldProcess = shouldProcess
	return nil
}

// Start registers every binding with the backend and runs the dispatcher
// and clipboard poller until ctx is done. Registration failures are logged
// and do not stop the others.
func (k *Keyboard) Start(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.started {
		return ErrStarted
	}

	d := hotkey.NewDispatcher(k.bindings, hotkey.Options{
		Logger: k.log.With().Str("component", "dispatcher").Logger(),
		Errors: k.cfg.Errors,
	})

	var poller *clipboard.Poller
	if k.cfg.Clipboard != nil && k.onClipboard != nil {
		should := k.shouldProcess
		p, err := clipboard.NewPoller(clipboard.Options{
			Source:   k.cfg.Clipboard,
			Interval: k.cfg.PollInterval,
			OnChange: k.onClipboard,
			ShouldProcess: func() bool {
				return d.IsEmpty() && (should == nil || should())
			},
			ClearOnStart: k.cfg.ClearClipboard,
			Logger:       k.log.With().Str("component", "clipboard").Logger(),
		})
		if err != nil {
			return err
		}
		poller = p
	}

	if k.backend != nil {
		exclusive := backend.Swallows(k.backend)
		for combination := range k.bindings {
			if err := k.backend.Register(combination, func() { d.Push(combination) }); err != nil {
				k.log.Warn().Err(err).Str("combination", combination).Msg("Failed to register hotkey")
				continue
			}
			if exclusive {
				k.log.Warn().Str("combination", combination).Str("backend", k.backend.Name()).
					Msg("Hotkey is grabbed exclusively and will no longer reach the focused window")
			}
		}
		if err := k.backend.Listen(); err != nil {
			k.log.Warn().Err(err).Msg("Some hotkeys are not listening")
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.Run(gctx) })
	if poller != nil {
		g.Go(func() error { return poller.Run(gctx) })
	}

	k.dispatcher = d
	k.group = g
	k.started = true
	k.log.Info().Int("hotkeys", len(k.bindings)).Bool("clipboard", poller != nil).Msg("Keyboard started")
	return nil
}

// Wait blocks until the loops started by Start return.
func (k *Keyboard) Wait() error {
	k.mu.Lock()
	g := k.group
	k.mu.Unlock()

	if g == nil {
		return nil
	}
	return g.Wait()
}

// Idle reports whether no hotkey callback is queued or running.
func (k *Keyboard) Idle() bool {
	k.mu.Lock()
	d := k.dispatcher
	k.mu.Unlock()

	return d == nil || d.IsEmpty()
}

// Write types text literally.
func (k *Keyboard) Write(ctx context.Context, text string) error {
	return k.sender.Write(ctx, text)
}

// PressAndRelease presses the keys of spec as a chord.
func (k *Keyboard) PressAndRelease(ctx context.Context, spec string) error {
	return k.sender.PressAndRelease(ctx, spec)
}

// Copy sends ClipboardHotkey.
func (k *Keyboard) Copy(ctx context.Context) error {
	return k.sender.PressAndRelease(ctx, ClipboardHotkey)
}

// StartStashScroll launches the scroll bridge. It does nothing unless the
// platform supports it and the feature is enabled.
func (k *Keyboard) StartStashScroll() error {
	if !k.scrollActive() {
		k.log.Debug().Msg("Stash scroll disabled")
		return nil
	}
	return k.cfg.Bridge.Start()
}

// StopStashScroll terminates the scroll bridge if it was started.
func (k *Keyboard) StopStashScroll() error {
	if !k.scrollActive() {
		return nil
	}
	return k.cfg.Bridge.Stop()
}

func (k *Keyboard) scrollActive() bool {
	return scroll.Supported() && k.cfg.ScrollEnabled && k.cfg.Bridge != nil
}

// Close stops the bridge and releases the backend.
func (k *Keyboard) Close() error {
	var errs []error
	if err := k.StopStashScroll(); err != nil {
		errs = append(errs, err)
	}
	if k.backend != nil {
		if err := k.backend.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
