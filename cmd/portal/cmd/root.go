// Package cmd provides the CLI commands for the portal gateway.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Portal Gateway - session and navigation gate for the bank portal",
	Long: `Portal Gateway signs users in and out, restores their session from the
access token and decides which portal pages they may open.

Configuration:
  Settings are read from the environment. serve also loads a .env file from
  the working directory when one exists.

Commands:
  serve       Start the HTTP gateway
  resolve     Show where a navigation ends for a given set of roles
  version     Print version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
