package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath string
	sessionID  string
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "amalgam",
		Short: "Amalgam - expand your territory and craft the Quantum Amalgam",
		Long: `Amalgam is a turn-based territory and crafting game.

Play locally in your terminal, or drive sessions hosted by amalgam-daemon
over its Unix socket.

Examples:
  amalgam play
  amalgam play --seed 42 --size 15
  amalgam game new
  amalgam game move up
  amalgam game show
  amalgam game tree
  amalgam ledger list --crafted-only
  amalgam ledger export --out turns.jsonl.zst`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "",
		"Session ID (defaults to the one saved by 'amalgam game new')")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewPlayCommand())
	rootCmd.AddCommand(NewGameCommand())
	rootCmd.AddCommand(NewLedgerCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("AMALGAM_SOCKET"); path != "" {
		return path
	}
	return "/tmp/amalgam-daemon.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
