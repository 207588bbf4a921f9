// Package stream implements datastream management commands for streamctl.
package stream

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rzava/streamd/internal/cli/output"
	"github.com/rzava/streamd/pkg/apiclient"
)

// Cmd is the parent command for datastream management.
var Cmd = &cobra.Command{
	Use:   "stream",
	Short: "Datastream management",
	Long: `Manage datastreams on the streamd server.

Stream commands allow you to create, list, fetch, and delete datastreams.

Examples:
  # List all datastreams
  streamctl stream list

  # List a page of datastreams
  streamctl stream list --offset 10 --count 5

  # Fetch one datastream
  streamctl stream get mirror-events

  # Create a datastream
  streamctl stream create mirror-events --connector kafka \
    --source kafka://broker:9092/events --owner data-team

  # Delete a datastream
  streamctl stream delete mirror-events`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(deleteCmd)
}

// clientFromFlags builds an API client from the persistent --server flag.
func clientFromFlags(cmd *cobra.Command) *apiclient.Client {
	server, _ := cmd.Flags().GetString("server")
	return apiclient.New(server)
}

// printerFromFlags builds a printer from the persistent output flags.
func printerFromFlags(cmd *cobra.Command) (*output.Printer, error) {
	formatStr, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	noColor, _ := cmd.Flags().GetBool("no-color")
	return output.NewPrinter(os.Stdout, format, !noColor), nil
}

func printerAndClient(cmd *cobra.Command) (*output.Printer, *apiclient.Client, error) {
	printer, err := printerFromFlags(cmd)
	if err != nil {
		return nil, nil, err
	}
	return printer, clientFromFlags(cmd), nil
}

// fmtDestination renders the destination column, tolerating streams that
// have none assigned yet.
func fmtDestination(connectionString string, partitions int) string {
	if connectionString == "" {
		return "-"
	}
	if partitions > 0 {
		return fmt.Sprintf("%s (%d)", connectionString, partitions)
	}
	return connectionString
}
