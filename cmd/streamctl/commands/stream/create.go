package stream

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rzava/streamd/pkg/datastream"
)

var (
	createConnector   string
	createSource      string
	createPartitions  int
	createDestination string
	createOwner       string
	createMetadata    map[string]string
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a datastream",
	Long: `Create a new datastream on the streamd server.

The server validates the request, initializes the stream through the
coordinator (assigning a destination unless one is supplied), and persists it.

Examples:
  # Create with an assigned destination
  streamctl stream create mirror-events --connector kafka \
    --source kafka://broker:9092/events --owner data-team

  # Create with a user-managed destination
  streamctl stream create mirror-events --connector kafka \
    --source kafka://broker:9092/events --owner data-team \
    --destination kafka://other:9092/events-copy

  # Attach extra metadata
  streamctl stream create mirror-events --connector kafka \
    --source kafka://broker:9092/events --owner data-team \
    --meta team=ingest --meta tier=gold`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createConnector, "connector", "", "Connector type (required)")
	createCmd.Flags().StringVar(&createSource, "source", "", "Source connection string (required)")
	createCmd.Flags().IntVar(&createPartitions, "partitions", 0, "Source partition count")
	createCmd.Flags().StringVar(&createDestination, "destination", "", "User-managed destination connection string")
	createCmd.Flags().StringVar(&createOwner, "owner", "", "Owning principal (required)")
	createCmd.Flags().StringToStringVar(&createMetadata, "meta", nil, "Additional metadata as key=value")
	_ = createCmd.MarkFlagRequired("connector")
	_ = createCmd.MarkFlagRequired("source")
	_ = createCmd.MarkFlagRequired("owner")
}

func runCreate(cmd *cobra.Command, args []string) error {
	printer, client, err := printerAndClient(cmd)
	if err != nil {
		return err
	}

	ds := &datastream.Datastream{
		Name:          args[0],
		ConnectorName: createConnector,
		Source: &datastream.Source{
			ConnectionString: createSource,
			Partitions:       createPartitions,
		},
		Metadata: map[string]string{
			datastream.MetadataOwner: createOwner,
		},
	}
	for k, v := range createMetadata {
		ds.Metadata[k] = v
	}
	if createDestination != "" {
		ds.Destination = &datastream.Destination{ConnectionString: createDestination}
	}

	resp, err := client.CreateDatastream(ds)
	if err != nil {
		return fmt.Errorf("failed to create datastream: %w", err)
	}

	printer.Success(fmt.Sprintf("Datastream %q created", resp.Name))
	return nil
}
