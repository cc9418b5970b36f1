//go:build linux

package listener

import (
	"errors"
	"os"
)

func sessionAvailable() error {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return errors.New("no display session (DISPLAY and WAYLAND_DISPLAY unset)")
	}
	return nil
}
