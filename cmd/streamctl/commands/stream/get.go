package stream

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rzava/streamd/internal/cli/output"
	"github.com/rzava/streamd/pkg/datastream"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Fetch a datastream by name",
	Long: `Fetch a single datastream by its exact name.

Examples:
  # Show a datastream as a key-value table
  streamctl stream get mirror-events

  # Show as JSON
  streamctl stream get mirror-events -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	printer, client, err := printerAndClient(cmd)
	if err != nil {
		return err
	}

	ds, err := client.GetDatastream(args[0])
	if err != nil {
		return fmt.Errorf("failed to get datastream: %w", err)
	}

	if printer.Format() != output.FormatTable {
		return printer.Print(ds)
	}

	return output.SimpleTable(cmd.OutOrStdout(), streamPairs(ds))
}

func streamPairs(ds *datastream.Datastream) [][2]string {
	pairs := [][2]string{
		{"Name", ds.Name},
		{"Connector", ds.ConnectorName},
	}
	if ds.Source != nil {
		pairs = append(pairs, [2]string{"Source", fmtDestination(ds.Source.ConnectionString, ds.Source.Partitions)})
	}
	if ds.Destination != nil {
		pairs = append(pairs, [2]string{"Destination", fmtDestination(ds.Destination.ConnectionString, ds.Destination.Partitions)})
	}

	keys := make([]string, 0, len(ds.Metadata))
	for k := range ds.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, [2]string{"Metadata " + k, ds.Metadata[k]})
	}
	return pairs
}
