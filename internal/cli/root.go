package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var opts *Options

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts = DefaultOptions()

	rootCmd := &cobra.Command{
		Use:   "dicesack",
		Short: "Roll dice, lock the keepers, and keep a history of every turn",
		Long: `dicesack is a turn-based dice roller.

Each turn starts with a fresh group of dice. Roll as often as you like,
locking dice to keep their faces between rolls, then end the turn to save
the result to history. Run "dicesack play" for the interactive table or
use "roll" and "history" from scripts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Fail fast on bad flags or config before any storage is opened
			_, err := opts.Resolve()
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "Config file (env: DICESACK_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.Storage, "storage", opts.Storage, "History storage: memory, redis, sqlite (env: DICESACK_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite-path", opts.SQLitePath, "SQLite history file (env: DICESACK_SQLITE_PATH)")
	rootCmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", opts.LogFile, "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", opts.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newRollCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context) int {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		NewOutput(opts.Output, rootCmd.OutOrStdout(), rootCmd.ErrOrStderr()).PrintError(err)
		return 1
	}
	return 0
}
