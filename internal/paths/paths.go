// Package paths resolves the configuration and data directories used by the
// hbnb shell.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
)

// appName names the per-user configuration directory.
const appName = "hbnb"

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "HBNB_CONFIG_DIR"
	EnvDataDir   = "HBNB_DATA_DIR"
)

// Overrides holds the directory overrides read from the environment.
type Overrides struct {
	ConfigDir string `env:"HBNB_CONFIG_DIR"`
	DataDir   string `env:"HBNB_DATA_DIR"`
}

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	workDir       func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	workDir:       os.Getwd,
}

// LoadOverrides reads the directory overrides from the environment.
func LoadOverrides() (Overrides, error) {
	var o Overrides
	if err := env.Parse(&o); err != nil {
		return Overrides{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/hbnb (fallback ~/.config/hbnb)
// macOS:   ~/Library/Application Support/hbnb
// Windows: %APPDATA%/hbnb
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// DefaultDataDir returns the working directory, where the shell keeps
// file.json unless told otherwise.
func DefaultDataDir() (string, error) {
	return platformDir.workDir()
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > HBNB_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	o, err := LoadOverrides()
	if err != nil {
		return "", err
	}
	if o.ConfigDir != "" {
		return filepath.Abs(o.ConfigDir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configValue (data_dir in config.yaml) > HBNB_DATA_DIR > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	o, err := LoadOverrides()
	if err != nil {
		return "", err
	}
	if o.DataDir != "" {
		return filepath.Abs(o.DataDir)
	}
	return DefaultDataDir()
}
