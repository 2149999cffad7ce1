// Package cli implements the hbnb command-line interface: the interactive
// shell started by the root command, plus init and version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/internal/console"
	"github.com/mesh-intelligence/hbnb/internal/storage"
)

// exitStartupError is returned to the shell when the console cannot start.
const exitStartupError = 1

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
}

// NewRootCmd creates the top-level "hbnb" command with global flags and all
// subcommands registered. Running it without a subcommand starts the shell.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "hbnb",
		Short: "Interactive console for hbnb objects",
		Long: "hbnb reads commands such as \"create User\" or \"User.show(<id>)\" one per line\n" +
			"and keeps the objects they create in a JSON file, SQLite or Badger store.",
		Args: cobra.NoArgs,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/hbnb)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: current directory)")
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "storage backend: json, sqlite or badger (default: json)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(flags))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(exitStartupError)
	}
}

// runShell opens the configured store and runs the console on the command's
// input and output streams until quit or end of input.
func runShell(cmd *cobra.Command, flags *rootFlags) (err error) {
	s, err := resolveSettings(*flags)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), s.LogLevel)

	engine, err := storage.Open(s.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close storage: %w", cerr)
		}
	}()

	con := console.New(engine, cmd.OutOrStdout(),
		console.WithPrompt(s.Prompt),
		console.WithCoercion(s.Coercion),
		console.WithLogger(logger),
	)
	return con.Run(cmd.InOrStdin())
}
