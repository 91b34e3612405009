// Package config loads cellframe settings from a TOML file, environment
// variables and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/cellframe/terminal"
)

// Config is the top-level application configuration.
type Config struct {
	Render  RenderConfig  `mapstructure:"render" toml:"render"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
	SSH     SSHConfig     `mapstructure:"ssh" toml:"ssh"`
}

// RenderConfig selects the backend and frame pacing.
type RenderConfig struct {
	Backend         string `mapstructure:"backend" toml:"backend"`       // ansi | tcell
	ColorMode       string `mapstructure:"color_mode" toml:"color_mode"` // auto | 256 | truecolor
	CoalesceGap     int    `mapstructure:"coalesce_gap" toml:"coalesce_gap"`
	FrameIntervalMs int    `mapstructure:"frame_interval_ms" toml:"frame_interval_ms"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`   // trace | debug | info | warn | error
	Format string `mapstructure:"format" toml:"format"` // console | json
	File   string `mapstructure:"file" toml:"file"`     // empty logs to stderr
}

// SSHConfig configures the serve-ssh listener.
type SSHConfig struct {
	Addr    string `mapstructure:"addr" toml:"addr"`
	HostKey string `mapstructure:"host_key" toml:"host_key"` // empty generates an ephemeral key
}

const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"

	ColorAuto = "auto"
)

// EnvPrefix prefixes environment overrides, e.g. CELLFRAME_RENDER_BACKEND.
const EnvPrefix = "CELLFRAME"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Backend:         BackendANSI,
			ColorMode:       ColorAuto,
			CoalesceGap:     4,
			FrameIntervalMs: 250,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		SSH: SSHConfig{
			Addr: "127.0.0.1:2222",
		},
	}
}

// DefaultConfigPath returns ~/.config/cellframe/config.toml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cellframe", "config.toml"), nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Render.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("unsupported render.backend %q", c.Render.Backend)
	}
	if _, ok := terminal.ParseColorMode(c.Render.ColorMode); !ok {
		return fmt.Errorf("unsupported render.color_mode %q", c.Render.ColorMode)
	}
	if c.Render.CoalesceGap < 0 {
		return fmt.Errorf("render.coalesce_gap must not be negative")
	}
	if c.Render.FrameIntervalMs <= 0 {
		return fmt.Errorf("render.frame_interval_ms must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported logging.format %q", c.Logging.Format)
	}

	if strings.TrimSpace(c.SSH.Addr) == "" {
		return fmt.Errorf("ssh.addr is required")
	}
	return nil
}

// ResolveColorMode resolves render.color_mode, detecting from the environment for auto.
func (r RenderConfig) ResolveColorMode() terminal.ColorMode {
	mode, _ := terminal.ParseColorMode(r.ColorMode)
	return mode
}
