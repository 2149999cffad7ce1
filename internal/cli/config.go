package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/hbnb/internal/console"
	"github.com/mesh-intelligence/hbnb/internal/paths"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyFileName = "file_name"
	cfgKeyPrompt   = "prompt"
	cfgKeyCoerce   = "coerce_values"
	cfgKeyLogLevel = "log_level"
)

// Defaults applied when config.yaml is missing or leaves a key out.
const (
	defaultLogLevel = "warn"
	defaultCoercion = "literal"
)

// settings is the fully resolved configuration for one run.
type settings struct {
	ConfigDir string
	Storage   types.Config
	Prompt    string
	Coercion  console.Coercion
	LogLevel  slog.Level
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; the defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendJSON)
	v.SetDefault(cfgKeyFileName, types.DefaultFileName)
	v.SetDefault(cfgKeyPrompt, console.DefaultPrompt)
	v.SetDefault(cfgKeyCoerce, defaultCoercion)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config %s: %w", filepath.Join(configDir, paths.ConfigFileName), err)
	}
	return v, nil
}

// resolveSettings combines flags, config.yaml and the environment.
func resolveSettings(flags rootFlags) (settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}
	backend := v.GetString(cfgKeyBackend)
	if flags.backend != "" {
		backend = flags.backend
	}
	cfg := types.Config{
		Backend:  backend,
		DataDir:  dataDir,
		FileName: v.GetString(cfgKeyFileName),
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid storage config: %w", err)
	}

	coercion, err := console.ParseCoercion(v.GetString(cfgKeyCoerce))
	if err != nil {
		return settings{}, fmt.Errorf("invalid %s: %w", cfgKeyCoerce, err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return settings{}, fmt.Errorf("invalid %s: %w", cfgKeyLogLevel, err)
	}

	return settings{
		ConfigDir: configDir,
		Storage:   cfg,
		Prompt:    v.GetString(cfgKeyPrompt),
		Coercion:  coercion,
		LogLevel:  level,
	}, nil
}

// newLogger returns a text logger writing to w at the given level.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
