// =============================================================================
// flags.go - Command Line Flags
// =============================================================================
//
// The --config, --host and --port flags both executables accept.
//
// =============================================================================

package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags are the connection flags shared by the executables. Flags set on
// the command line win over the config file.
type Flags struct {
	fs   *pflag.FlagSet
	path string
	host string
	port int
}

// AddFlags registers --config, --host and --port on fs.
func AddFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	def := Default()
	fs.StringVar(&f.path, "config", "", "TOML config file (default $"+EnvConfigPath+")")
	fs.StringVar(&f.host, "host", def.Host, "server host")
	fs.IntVar(&f.port, "port", def.Port, "server port")
	return f
}

// Load reads the config file and applies the flags given explicitly.
func (f *Flags) Load() (Config, error) {
	cfg, err := Load(f.path)
	if err != nil {
		return Config{}, err
	}
	if f.fs.Changed("host") {
		cfg.Host = f.host
	}
	if f.fs.Changed("port") {
		cfg.Port = f.port
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid: %w", err)
	}
	return cfg, nil
}
