// Package config loads the small set of knobs that configure a Maple
// run (spec.md §10.2, AMBIENT): log verbosity, whether diagnostics
// colorize, and which optional builtins the host registers. A
// standalone tree-walking interpreter has no project/module manifest to
// speak of, so this is a flat struct rather than chai's nested project/
// profile/module schema.
package config

import (
	"os"

	"github.com/pelletier/go-toml"
)

// LogLevel mirrors the handful of verbosities a CLI run can ask for.
type LogLevel string

const (
	LogQuiet   LogLevel = "quiet"
	LogNormal  LogLevel = "normal"
	LogVerbose LogLevel = "verbose"
)

// Config is the full set of host-demo knobs. Builtins names the host
// builtins to register: cmd/maple registers cos, micro and print
// together as soon as the list names any one of them, so single
// builtins cannot be switched off individually; an empty list
// registers none.
type Config struct {
	LogLevel LogLevel `toml:"log_level"`
	Color    bool     `toml:"color"`
	Builtins []string `toml:"builtins"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		LogLevel: LogNormal,
		Color:    true,
		Builtins: []string{"cos", "micro", "print"},
	}
}

// Load reads a TOML file at path and overlays it onto Default(). A
// missing file is not an error — callers pass an empty path (or a path
// that doesn't exist) to mean "use defaults".
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
