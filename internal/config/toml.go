// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timer   TimerConfig   `toml:"timer"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// TimerConfig maps timer-related settings.
type TimerConfig struct {
	ScrambleLength   *int `toml:"scramble-length"`
	HoldMs           *int `toml:"hold-ms"`
	ReleaseTimeoutMs *int `toml:"release-timeout-ms"`
	TickMs           *int `toml:"tick-ms"`
	Recent           *int `toml:"recent"`
}

// StorageConfig maps storage settings.
type StorageConfig struct {
	Backend *string `toml:"backend"`
	Path    *string `toml:"path"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	Path  *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
