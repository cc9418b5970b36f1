//go:build !windows

package scroll

import (
	"context"
	"io"
	"os/exec"

	"github.com/rs/zerolog"
)

// Supported reports whether the hook bridge can run here.
func Supported() bool { return false }

// BridgeConfig configures the bridge process side.
type BridgeConfig struct {
	WindowTitle string
	Control     io.Reader
	Logger      zerolog.Logger
}

// RunBridge always fails outside Windows.
func RunBridge(context.Context, BridgeConfig) error {
	return ErrUnsupported
}

func hideWindow(*exec.Cmd) {}
