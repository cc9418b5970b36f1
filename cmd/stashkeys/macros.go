package main

import (
	"context"
	"fmt"
	"time"

	"github.com/petems/stashkeys/internal/config"
	"github.com/petems/stashkeys/internal/hotkey"
)

const macroTimeout = 5 * time.Second

// macroKeyboard is the part of app.Keyboard the macros need.
type macroKeyboard interface {
	AddHotkey(combination string, cb hotkey.Callback) error
	Write(ctx context.Context, text string) error
	PressAndRelease(ctx context.Context, spec string) error
}

// bindMacros registers one callback per configured hotkey. A macro either
// presses a chord (send) or types literal text (type).
func bindMacros(kb macroKeyboard, macros []config.HotkeyConfig) error {
	for _, m := range macros {
		var cb hotkey.Callback
		switch {
		case m.Send != "":
			cb = func() error {
				ctx, cancel := context.WithTimeout(context.Background(), macroTimeout)
				defer cancel()
				return kb.PressAndRelease(ctx, m.Send)
			}
		case m.Type != "":
			cb = func() error {
				ctx, cancel := context.WithTimeout(context.Background(), macroTimeout)
				defer cancel()
				return kb.Write(ctx, m.Type)
			}
		default:
			return fmt.Errorf("hotkey %q has no action", m.Combination)
		}
		if err := kb.AddHotkey(m.Combination, cb); err != nil {
			return fmt.Errorf("hotkey %q: %w", m.Combination, err)
		}
	}
	return nil
}
