package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "relaychat",
		Short: "Terminal client for the relaychat server",
		Long: `relaychat is a terminal client for the relaychat TCP chat server.

It connects over a plain TCP socket, drives the interactive register/login
flow, and then relays chat lines between your terminal and the server.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Chat server address (env: RELAYCHAT_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.StatusURL, "status-url", cfg.StatusURL, "Status endpoint base URL (env: RELAYCHAT_STATUS_URL)")

	// Add subcommands
	rootCmd.AddCommand(newConnectCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
