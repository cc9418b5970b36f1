package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petems/stashkeys/internal/app"
	"github.com/petems/stashkeys/internal/backend"
	"github.com/petems/stashkeys/internal/backend/listener"
	"github.com/petems/stashkeys/internal/backend/native"
	"github.com/petems/stashkeys/internal/clipboard"
	clipnative "github.com/petems/stashkeys/internal/clipboard/native"
	"github.com/petems/stashkeys/internal/config"
	"github.com/petems/stashkeys/internal/logging"
	"github.com/petems/stashkeys/internal/permissions"
	"github.com/petems/stashkeys/internal/scroll"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stashkeys",
	Short: "Global hotkey macros, clipboard watching and stash scrolling",
	Long: `stashkeys registers the hotkey macros from its config file, watches the
clipboard for changes and, on Windows, turns ctrl+wheel over the game window
into left/right key presses.

The config file lives in the platform config directory under stashkeys/config.toml
unless --config is given.`,
	Version:       fmt.Sprintf("%s (%s)", Version, Commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var hookBridgeCmd = &cobra.Command{
	Use:    "hook-bridge",
	Short:  "Run the low-level scroll hooks until stdin closes",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBridge(cmd.Context())
	},
}

var (
	flagConfig      string
	flagLogLevel    string
	flagWindowTitle string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.toml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override log level (debug, info, warn, error)")
	hookBridgeCmd.Flags().StringVar(&flagWindowTitle, "window-title", scroll.DefaultWindowTitle, "foreground window the gesture applies to")
	rootCmd.AddCommand(hookBridgeCmd)
}

func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.LoadFile(flagConfig)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	return logging.NewWithLevel(level)
}

func run(parent context.Context) error {
	// Load config from XDG/Library/AppData
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger with configured level
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	// macOS needs accessibility trust before the listener backend can see keys
	if err := permissions.EnsurePermissions(); err != nil {
		log.Warn().Err(err).Msg("Accessibility not granted, hotkeys may not work")
	}

	ctors, err := backend.Filter([]backend.Constructor{native.Constructor(), listener.Constructor()}, cfg.Backends)
	if err != nil {
		return err
	}

	source, err := clipboardSource(cfg.Clipboard.Provider)
	if err != nil {
		log.Warn().Err(err).Msg("Clipboard unavailable, polling disabled")
		source = nil
	}

	var bridge *scroll.Bridge
	if cfg.StashScroll.Enabled {
		bridge, err = scroll.NewBridge(scroll.BridgeOptions{
			Args:   bridgeArgs(cfg),
			Logger: log,
		})
		if err != nil {
			return err
		}
	}

	errs := make(chan error, 8)
	kb := app.New(app.Config{
		Backends:       ctors,
		Clipboard:      source,
		PollInterval:   cfg.Clipboard.PollInterval.Duration,
		ClearClipboard: cfg.Clipboard.ClearOnStart,
		Bridge:         bridge,
		ScrollEnabled:  cfg.StashScroll.Enabled,
		Logger:         log,
		Errors:         errs,
	})
	defer kb.Close()

	if err := bindMacros(kb, cfg.Hotkeys); err != nil {
		return err
	}
	if err := kb.SetClipboardCallback(func(text string) {
		log.Info().Int("length", len(text)).Msg("Clipboard changed")
	}, nil); err != nil {
		return err
	}

	// Setup shutdown signal handling
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", Version).Msg("stashkeys starting...")

	if err := kb.Start(ctx); err != nil {
		return err
	}
	if err := kb.StartStashScroll(); err != nil {
		log.Error().Err(err).Msg("Failed to start stash scroll")
	}

	go func() {
		for err := range errs {
			log.Debug().Err(err).Msg("Hotkey callback failed")
		}
	}()

	err = kb.Wait()
	log.Info().Msg("Shutting down...")
	return err
}

func runBridge(parent context.Context) error {
	level := flagLogLevel
	if level == "" {
		level = "info"
	}
	log, err := logging.NewWithLevel(level)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scroll.RunBridge(ctx, scroll.BridgeConfig{
		WindowTitle: flagWindowTitle,
		Control:     os.Stdin,
		Logger:      log,
	}); err != nil {
		log.Error().Err(err).Msg("Hook bridge failed")
		return err
	}
	return nil
}

func bridgeArgs(cfg *config.Config) []string {
	args := []string{hookBridgeCmd.Name(), "--window-title", cfg.StashScroll.WindowTitle}
	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if level != "" {
		args = append(args, "--log-level", level)
	}
	return args
}

func clipboardSource(provider string) (clipboard.Source, error) {
	switch provider {
	case config.ProviderDesign:
		src, err := clipnative.New()
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return clipboard.NewSystemSource()
	}
}
