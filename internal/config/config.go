// =============================================================================
// config.go - Client Configuration
// =============================================================================
//
// Settings shared by segment-cli and segment-keyspaces, read from an
// optional TOML file over built-in defaults. Unknown keys are errors.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/segment-dev/segment-cli/segmentprotocol"
)

// EnvConfigPath names a config file used when no --config flag is given.
const EnvConfigPath = "SEGMENT_CONFIG"

// Config holds client settings shared by the executables.
type Config struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	DialTimeout    Duration `toml:"dial_timeout"`
	CommandTimeout Duration `toml:"command_timeout"`
	HistoryFile    string   `toml:"history_file"`
}

// Duration is a time.Duration read from a TOML string such as "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Host:           segmentprotocol.DefaultHost,
		Port:           segmentprotocol.DefaultPort,
		DialTimeout:    Duration{segmentprotocol.DialTimeout},
		CommandTimeout: Duration{segmentprotocol.CommandTimeout},
		HistoryFile:    defaultHistoryFile(),
	}
}

// Load reads path over the defaults. An empty path falls back to
// $SEGMENT_CONFIG; with neither set the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Validate checks that cfg can be used to connect.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return errors.New("host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range", cfg.Port)
	}
	if cfg.DialTimeout.Duration < 0 {
		return errors.New("dial_timeout must not be negative")
	}
	if cfg.CommandTimeout.Duration < 0 {
		return errors.New("command_timeout must not be negative")
	}
	return nil
}

// ConnectionOptions converts cfg to transport options.
func (c Config) ConnectionOptions() segmentprotocol.ConnectionOptions {
	opts := segmentprotocol.NewConnectionOptions(c.Host, c.Port)
	if c.DialTimeout.Duration > 0 {
		opts.DialTimeout = c.DialTimeout.Duration
	}
	if c.CommandTimeout.Duration > 0 {
		opts.CommandTimeout = c.CommandTimeout.Duration
	}
	return opts
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".segment_history")
}
