package scroll

import (
	"errors"
	"sync"
)

// Installer installs and removes the keyboard and mouse hooks.
type Installer interface {
	Install() (keyboard, mouse uintptr, err error)
	Uninstall(keyboard, mouse uintptr) error
}

// Hooks owns the hook handles. Handles are non-zero only while enabled.
type Hooks struct {
	inst Installer

	mu             sync.Mutex
	keyboard       uintptr
	mouse          uintptr
	exitRegistered bool
}

// NewHooks returns disabled hooks.
func NewHooks(inst Installer) *Hooks {
	return &Hooks{inst: inst}
}

// Enable installs both hooks. It is a no-op when already enabled.
func (h *Hooks) Enable() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.keyboard != 0 {
		return nil
	}
	kb, ms, err := h.inst.Install()
	if err != nil {
		return err
	}
	if kb == 0 || ms == 0 {
		return errors.New("installer returned a null hook handle")
	}
	h.keyboard, h.mouse = kb, ms

	if !h.exitRegistered {
		atExit(func() { _ = h.Disable() })
		h.exitRegistered = true
	}
	return nil
}

// Disable removes both hooks. It is a no-op when already disabled.
func (h *Hooks) Disable() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.keyboard == 0 {
		return nil
	}
	err := h.inst.Uninstall(h.keyboard, h.mouse)
	h.keyboard, h.mouse = 0, 0
	return err
}

// Enabled reports whether the hooks are installed.
func (h *Hooks) Enabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.keyboard != 0
}

// Handles returns the current keyboard and mouse hook handles.
func (h *Hooks) Handles() (keyboard, mouse uintptr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.keyboard, h.mouse
}

var (
	exitMu       sync.Mutex
	exitHandlers []func()
)

func atExit(fn func()) {
	exitMu.Lock()
	defer exitMu.Unlock()
	exitHandlers = append(exitHandlers, fn)
}

// runExitHandlers runs registered cleanups in reverse order, once.
func runExitHandlers() {
	exitMu.Lock()
	handlers := exitHandlers
	exitHandlers = nil
	exitMu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		handlers[i]()
	}
}
