package stream

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rzava/streamd/internal/cli/prompt"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a datastream",
	Long: `Delete a datastream by name.

Prompts for confirmation unless --force is given.

Examples:
  # Delete with confirmation
  streamctl stream delete mirror-events

  # Delete without confirmation
  streamctl stream delete mirror-events --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	printer, client, err := printerAndClient(cmd)
	if err != nil {
		return err
	}
	name := args[0]

	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete datastream %q?", name), deleteForce)
	if err != nil {
		return err
	}
	if !confirmed {
		printer.Println("Aborted.")
		return nil
	}

	if err := client.DeleteDatastream(name); err != nil {
		return fmt.Errorf("failed to delete datastream: %w", err)
	}

	printer.Success(fmt.Sprintf("Datastream %q deleted", name))
	return nil
}
