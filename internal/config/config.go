package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/petems/stashkeys/internal/keys"
)

// Clipboard providers.
const (
	ProviderSystem = "system"
	ProviderDesign = "design"
)

type Config struct {
	LogLevel    string            `toml:"log_level"`
	Backends    []string          `toml:"backends"` // priority order
	Clipboard   ClipboardConfig   `toml:"clipboard"`
	StashScroll StashScrollConfig `toml:"stash_scroll"`
	Hotkeys     []HotkeyConfig    `toml:"hotkeys"`

	path string
}

type ClipboardConfig struct {
	PollInterval Duration `toml:"poll_interval"`
	Provider     string   `toml:"provider"` // "system" or "design"
	ClearOnStart bool     `toml:"clear_on_start"`
}

type StashScrollConfig struct {
	Enabled     bool   `toml:"enabled"`
	WindowTitle string `toml:"window_title"`
}

// HotkeyConfig binds a combination to a macro. Exactly one of Send and Type
// is set.
type HotkeyConfig struct {
	Combination string `toml:"combination"`
	Send        string `toml:"send"`
	Type        string `toml:"type"`
}

// Duration reads and writes Go duration strings such as "300ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Backends: []string{"native", "listener"},
		Clipboard: ClipboardConfig{
			PollInterval: Duration{300 * time.Millisecond},
			Provider:     ProviderSystem,
			ClearOnStart: true,
		},
		StashScroll: StashScrollConfig{
			Enabled:     false,
			WindowTitle: "Path of Exile",
		},
	}
}

// Load reads the config from the default path or returns defaults
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the decoder cannot.
func (c *Config) Validate() error {
	var errs []error
	if c.Clipboard.PollInterval.Duration <= 0 {
		errs = append(errs, errors.New("clipboard.poll_interval must be positive"))
	}
	switch c.Clipboard.Provider {
	case ProviderSystem, ProviderDesign:
	default:
		errs = append(errs, fmt.Errorf("unknown clipboard provider %q", c.Clipboard.Provider))
	}
	for i, h := range c.Hotkeys {
		if _, err := keys.Parse(h.Combination); err != nil {
			errs = append(errs, fmt.Errorf("hotkeys[%d]: %w", i, err))
		}
		if (h.Send == "") == (h.Type == "") {
			errs = append(errs, fmt.Errorf("hotkeys[%d]: exactly one of send or type is required", i))
		}
	}
	return errors.Join(errs...)
}

// Save writes the config back to the file it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = Path()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// Path returns the platform-specific config file path
func Path() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "stashkeys", "config.toml")
}
