package stream

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rzava/streamd/pkg/datastream"
)

var (
	listOffset int
	listCount  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List datastreams",
	Long: `List datastreams on the streamd server.

Examples:
  # List the first page as a table
  streamctl stream list

  # List a specific window
  streamctl stream list --offset 10 --count 5

  # List as JSON
  streamctl stream list -o json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Index of the first stream to return")
	listCmd.Flags().IntVar(&listCount, "count", 0, "Maximum number of streams to return (0 = server default)")
}

// StreamList is a list of datastreams for table rendering.
type StreamList []*datastream.Datastream

// Headers implements TableRenderer.
func (sl StreamList) Headers() []string {
	return []string{"NAME", "CONNECTOR", "SOURCE", "DESTINATION", "OWNER"}
}

// Rows implements TableRenderer.
func (sl StreamList) Rows() [][]string {
	rows := make([][]string, 0, len(sl))
	for _, ds := range sl {
		source := "-"
		if ds.Source != nil {
			source = ds.Source.ConnectionString
		}
		destination := "-"
		if ds.Destination != nil {
			destination = fmtDestination(ds.Destination.ConnectionString, ds.Destination.Partitions)
		}
		rows = append(rows, []string{ds.Name, ds.ConnectorName, source, destination, ds.Owner()})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	printer, client, err := printerAndClient(cmd)
	if err != nil {
		return err
	}

	streams, err := client.ListDatastreams(listOffset, listCount)
	if err != nil {
		return fmt.Errorf("failed to list datastreams: %w", err)
	}

	if len(streams) == 0 {
		printer.Println("No datastreams found.")
		return nil
	}

	return printer.Print(StreamList(streams))
}
