// Package commands implements the CLI commands for the streamctl client.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	streamcmd "github.com/rzava/streamd/cmd/streamctl/commands/stream"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "streamctl",
	Short: "streamctl - Remote datastream management client",
	Long: `streamctl is the command-line client for managing datastreams on a
streamd server through its REST API.

Use "streamctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("streamctl %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().String("server", defaultServerURL(), "Server URL")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(streamcmd.Cmd)
}

func defaultServerURL() string {
	if url := os.Getenv("STREAMCTL_SERVER"); url != "" {
		return url
	}
	return "http://localhost:8080"
}
