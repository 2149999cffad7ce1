package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/hbnb/internal/console"
	"github.com/mesh-intelligence/hbnb/internal/paths"
	"github.com/mesh-intelligence/hbnb/internal/storage"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend      string `yaml:"backend"`
	DataDir      string `yaml:"data_dir,omitempty"`
	FileName     string `yaml:"file_name"`
	Prompt       string `yaml:"prompt"`
	CoerceValues string `yaml:"coerce_values"`
	LogLevel     string `yaml:"log_level"`
}

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and initialize storage",
		Long: "Create the configuration directory and a default config.yaml if none exists,\n" +
			"then open the configured store once so that its files are created.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}
}

func runInit(cmd *cobra.Command, flags *rootFlags) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	configPath := filepath.Join(configDir, paths.ConfigFileName)
	if err := writeConfigIfMissing(configPath, *flags); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	s, err := resolveSettings(*flags)
	if err != nil {
		return err
	}
	engine, err := storage.Open(s.Storage, newLogger(cmd.ErrOrStderr(), s.LogLevel))
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	if err := engine.Close(); err != nil {
		return fmt.Errorf("finalize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "hbnb initialized: config %s, %s storage in %s\n",
		configPath, s.Storage.Backend, s.Storage.DataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. Backend and data directory flags given to init are
// recorded in the new file. An existing file is left untouched.
func writeConfigIfMissing(path string, flags rootFlags) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:      types.BackendJSON,
		FileName:     types.DefaultFileName,
		Prompt:       console.DefaultPrompt,
		CoerceValues: defaultCoercion,
		LogLevel:     defaultLogLevel,
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}
	if flags.dataDir != "" {
		abs, err := filepath.Abs(flags.dataDir)
		if err != nil {
			return err
		}
		cfg.DataDir = abs
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
