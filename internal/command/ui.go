package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/form"
	"github.com/n1rna/tablekit/internal/output"
	"github.com/n1rna/tablekit/internal/tui"
)

// NewUICommand creates the UI command
func NewUICommand(groupID string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Edit tables and fields in an interactive form",
		Long: `Launch a terminal form to rename a table or to create or edit a field.

Errors are shown for fields you have visited. While the api name is focused a
warning reminds you that changing it breaks integrations using it.`,
		GroupID: groupID,
	}

	cmd.PersistentFlags().String("database", entities.DefaultDatabase, "Database the table belongs to")

	table := &cobra.Command{
		Use:   "table [table]",
		Short: "Rename a table",
		Args:  cobra.ExactArgs(1),
		RunE:  runTableUI,
	}

	field := &cobra.Command{
		Use:   "field [field]",
		Short: "Create a field, or edit the given one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFieldUI,
	}
	field.Flags().StringP("table", "t", "", "Table (id, api name or name)")
	_ = field.MarkFlagRequired("table")

	cmd.AddCommand(table, field)
	return cmd
}

func runTableUI(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, false)

	database, _ := cmd.Flags().GetString("database")
	table, err := manager.Tables.Get(database, args[0])
	if err != nil {
		return err
	}

	updated, ok, err := tui.EditTable(*table, tableSiblings(manager, database))
	if err != nil {
		return err
	}
	if !ok {
		printer.Info("No changes saved")
		return nil
	}

	if err := manager.Tables.Save(&updated); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	printer.Success(fmt.Sprintf("Saved table '%s' (api name %s)", updated.Name, updated.APIName))
	return nil
}

func runFieldUI(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	registry, err := requireRegistry(cmd.Context())
	if err != nil {
		return err
	}
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, false)

	table, err := loadTable(cmd, manager)
	if err != nil {
		return err
	}
	tables, err := databaseTables(manager, table.DatabaseID)
	if err != nil {
		return err
	}

	var field *entities.Field
	if len(args) == 1 {
		if field, err = manager.Fields.Get(table.ID, args[0]); err != nil {
			return err
		}
	}

	result, ok, err := tui.EditField(registry, *table, tables, field,
		fieldSiblings(manager, table.ID), manager.ReservedFieldNames())
	if err != nil {
		return err
	}
	if !ok {
		printer.Info("No changes saved")
		return nil
	}

	if field == nil {
		if err := checkPrimaryType(cmd, manager, table, result.Values[form.FieldType]); err != nil {
			return err
		}
		created, err := manager.Fields.Create(table, result.Values[form.FieldName], result.Values[form.FieldType], result.Options)
		if err != nil {
			return fmt.Errorf("failed to create field: %w", err)
		}
		printer.Success(fmt.Sprintf("Created field '%s' (api name %s)", created.Name, created.APIName))
		return nil
	}

	applyFieldValues(field, result.Values, result.Options)
	if err := manager.Fields.Save(field); err != nil {
		return fmt.Errorf("failed to save field: %w", err)
	}
	printer.Success(fmt.Sprintf("Saved field '%s'", field.Name))
	return nil
}
