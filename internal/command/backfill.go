package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBackfillCommand creates the command generating missing api names
func NewBackfillCommand(groupID string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Generate api names for tables and fields that have none",
		Long: `Generate api names for tables and fields stored without one.

Names are derived from the display name and kept unique among siblings.
Tables and fields that already have an api name are left untouched, so the
command can be run any number of times.`,
		Args:    cobra.NoArgs,
		RunE:    runBackfill,
		GroupID: groupID,
	}
	addOutputFlags(cmd)
	return cmd
}

func runBackfill(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	report, err := manager.BackfillAPINames()
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	return printer.PrintBackfillReport(report)
}
