package command

import (
	"github.com/spf13/cobra"
)

// NewTypesCommand creates the command listing the registered field types
func NewTypesCommand(groupID string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the available field types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := requireRegistry(cmd.Context())
			if err != nil {
				return err
			}
			printer, err := newPrinter(cmd)
			if err != nil {
				return err
			}
			return printer.PrintTypes(registry.All())
		},
		GroupID: groupID,
	}
	addOutputFlags(cmd)
	return cmd
}
