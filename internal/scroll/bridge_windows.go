//go:build windows

package scroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/petems/stashkeys/internal/inject"
	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	setWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	callNextHookEx      = user32.NewProc("CallNextHookEx")
	unhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	getMessage          = user32.NewProc("GetMessageW")
	translateMessage    = user32.NewProc("TranslateMessage")
	dispatchMessage     = user32.NewProc("DispatchMessageW")
	postThreadMessage   = user32.NewProc("PostThreadMessageW")
	getWindowTextLength = user32.NewProc("GetWindowTextLengthW")
	getWindowText       = user32.NewProc("GetWindowTextW")
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14
	wmQuit       = 0x0012
)

type msg struct {
	hwnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       struct{ x, y int32 }
	lPrivate uint32
}

// Supported reports whether the hook bridge can run here.
func Supported() bool { return true }

// BridgeConfig configures the bridge process side.
type BridgeConfig struct {
	WindowTitle string
	// Control is read until EOF; EOF requests shutdown.
	Control io.Reader
	Logger  zerolog.Logger
}

// RunBridge installs the hooks and pumps messages on a locked OS thread
// until ctx is done, Control reaches EOF, or the hooks are disabled.
func RunBridge(ctx context.Context, cfg BridgeConfig) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer runExitHandlers()

	log := cfg.Logger.With().Str("component", "hook-bridge").Logger()
	title := cfg.WindowTitle
	if title == "" {
		title = DefaultWindowTitle
	}

	inst := &winInstaller{
		translator: NewTranslator(title, foregroundTitle, inject.New(inject.SendInput{}), log),
	}
	hooks := NewHooks(inst)
	if err := hooks.Enable(); err != nil {
		return fmt.Errorf("enable hooks: %w", err)
	}
	log.Info().Str("window", title).Msg("Scroll hooks installed")

	threadID := windows.GetCurrentThreadId()
	stop := func() {
		postThreadMessage.Call(uintptr(threadID), wmQuit, 0, 0)
	}
	if cfg.Control != nil {
		go watchControl(cfg.Control, stop)
	}
	go func() {
		<-ctx.Done()
		stop()
	}()

	err := pump(hooks)
	if derr := hooks.Disable(); derr != nil {
		err = errors.Join(err, derr)
	}
	log.Info().Msg("Scroll hooks removed")
	return err
}

// pump dispatches messages until WM_QUIT or the hooks are disabled.
func pump(hooks *Hooks) error {
	var m msg
	for hooks.Enabled() {
		r, _, err := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("GetMessageW: %w", err)
		}
		translateMessage.Call(uintptr(unsafe.Pointer(&m)))
		dispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
	return nil
}

type winInstaller struct {
	translator *Translator

	keyboardCB uintptr
	mouseCB    uintptr
}

func (w *winInstaller) Install() (uintptr, uintptr, error) {
	// Callback slots are a limited resource, create them once.
	if w.keyboardCB == 0 {
		w.keyboardCB = windows.NewCallback(w.keyboardProc)
		w.mouseCB = windows.NewCallback(w.mouseProc)
	}

	kb, _, err := setWindowsHookEx.Call(whKeyboardLL, w.keyboardCB, 0, 0)
	if kb == 0 {
		return 0, 0, fmt.Errorf("SetWindowsHookExW(keyboard): %w", err)
	}
	ms, _, err := setWindowsHookEx.Call(whMouseLL, w.mouseCB, 0, 0)
	if ms == 0 {
		unhookWindowsHookEx.Call(kb)
		return 0, 0, fmt.Errorf("SetWindowsHookExW(mouse): %w", err)
	}
	return kb, ms, nil
}

func (w *winInstaller) Uninstall(keyboard, mouse uintptr) error {
	var errs []error
	if r, _, err := unhookWindowsHookEx.Call(keyboard); r == 0 {
		errs = append(errs, fmt.Errorf("UnhookWindowsHookEx(keyboard): %w", err))
	}
	if r, _, err := unhookWindowsHookEx.Call(mouse); r == 0 {
		errs = append(errs, fmt.Errorf("UnhookWindowsHookEx(mouse): %w", err))
	}
	return errors.Join(errs...)
}

func (w *winInstaller) keyboardProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 {
		w.translator.OnKeyboard(uint32(wParam), keyboardRecordAt(lParam).VKCode())
	}
	return callNext(nCode, wParam, lParam)
}

func (w *winInstaller) mouseProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 && uint32(wParam) == WMMouseWheel {
		if w.translator.OnMouse(uint32(wParam), mouseRecordAt(lParam).WheelDelta()) == Suppress {
			return 1
		}
	}
	return callNext(nCode, wParam, lParam)
}

func callNext(nCode, wParam, lParam uintptr) uintptr {
	r, _, _ := callNextHookEx.Call(0, nCode, wParam, lParam)
	return r
}

func foregroundTitle() string {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return ""
	}
	n, _, _ := getWindowTextLength.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	getWindowText.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

// hideWindow keeps the bridge from flashing a console window.
func hideWindow(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}
