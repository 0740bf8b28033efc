// Package command contains CLI command implementations.
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/form"
	"github.com/n1rna/tablekit/internal/output"
)

// TableCommand groups the table subcommands
type TableCommand struct{}

// NewTableCommand creates the table command
func NewTableCommand(groupID string) *cobra.Command {
	tc := &TableCommand{}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage tables",
		Long: `Create, rename and remove tables.

Every table has a display name and an api name. Both must be unique among the
tables of the same database. The api name is derived from the name when the
table is created and can be changed afterwards with 'table rename'.`,
		GroupID: groupID,
	}

	cmd.PersistentFlags().String("database", entities.DefaultDatabase, "Database the tables belong to")

	cmd.AddCommand(
		tc.newCreateCommand(),
		tc.newListCommand(),
		tc.newShowCommand(),
		tc.newRenameCommand(),
		tc.newDeleteCommand(),
	)

	return cmd
}

func (c *TableCommand) newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new table",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runCreate,
	}
	addOutputFlags(cmd)
	return cmd
}

func (c *TableCommand) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show list of tables",
		Args:  cobra.NoArgs,
		RunE:  c.runList,
	}
	addOutputFlags(cmd)
	return cmd
}

func (c *TableCommand) newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [table]",
		Short: "Show a table and its fields",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runShow,
	}
	addOutputFlags(cmd)
	return cmd
}

func (c *TableCommand) newRenameCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename [table]",
		Short: "Change the name or api name of a table",
		Long: `Change the name or api name of a table.

The table can be given by id, api name or name.

Examples:
  tablekit table rename customers --name "Clients"
  tablekit table rename Clients --api-name clients`,
		Args: cobra.ExactArgs(1),
		RunE: c.runRename,
	}
	cmd.Flags().String("name", "", "New display name")
	cmd.Flags().String("api-name", "", "New api name")
	addOutputFlags(cmd)
	return cmd
}

func (c *TableCommand) newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [table]",
		Short: "Delete a table and all of its fields",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runDelete,
	}
	cmd.Flags().Bool("quiet", false, "Suppress non-error output")
	return cmd
}

func (c *TableCommand) runCreate(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	database, _ := cmd.Flags().GetString("database")
	table, err := manager.Tables.Create(database, args[0])
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	printer.Success(fmt.Sprintf("Created table '%s' (api name %s)", table.Name, table.APIName))
	return printer.PrintTable(table, nil)
}

func (c *TableCommand) runList(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	database, _ := cmd.Flags().GetString("database")
	tables, err := manager.Tables.List(database)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	return printer.PrintTableList(tables)
}

func (c *TableCommand) runShow(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	database, _ := cmd.Flags().GetString("database")
	table, err := manager.Tables.Get(database, args[0])
	if err != nil {
		return err
	}
	fields, err := manager.Fields.List(table.ID)
	if err != nil {
		return fmt.Errorf("failed to list fields: %w", err)
	}
	return printer.PrintTable(table, fields)
}

func (c *TableCommand) runRename(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("api-name") {
		return fmt.Errorf("nothing to change: pass --name or --api-name, or use 'tablekit ui table'")
	}

	database, _ := cmd.Flags().GetString("database")
	table, err := manager.Tables.Get(database, args[0])
	if err != nil {
		return err
	}

	f := form.NewTableForm(*table, tableSiblings(manager, database))
	defer f.Close()

	if err := setChangedFlags(cmd, f.Set, map[string]string{
		"name":     form.FieldName,
		"api-name": form.FieldAPIName,
	}); err != nil {
		return err
	}

	values, ok := f.Submit()
	if !ok {
		printer.PrintValidationErrors(f.Errors())
		return errValidation
	}

	updated := f.Apply(values)
	if err := manager.Tables.Save(&updated); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}

	printer.Success(fmt.Sprintf("Renamed table to '%s' (api name %s)", updated.Name, updated.APIName))
	return nil
}

func (c *TableCommand) runDelete(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, quiet)

	database, _ := cmd.Flags().GetString("database")
	table, err := manager.Tables.Get(database, args[0])
	if err != nil {
		return err
	}

	if err := manager.DeleteTable(table); err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}

	printer.Success(fmt.Sprintf("Deleted table '%s'", table.Name))
	return nil
}
