package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/fieldtype"
	"github.com/n1rna/tablekit/internal/form"
	"github.com/n1rna/tablekit/internal/output"
)

// FieldCommand groups the field subcommands
type FieldCommand struct{}

// NewFieldCommand creates the field command
func NewFieldCommand(groupID string) *cobra.Command {
	fc := &FieldCommand{}

	cmd := &cobra.Command{
		Use:   "field",
		Short: "Manage the fields of a table",
		Long: `Create, edit and remove the fields of a table.

Field names and api names are unique within their table. The first field of a
table is its primary field. Run 'tablekit types' to see the available types.`,
		GroupID: groupID,
	}

	cmd.PersistentFlags().String("database", entities.DefaultDatabase, "Database the table belongs to")
	cmd.PersistentFlags().StringP("table", "t", "", "Table (id, api name or name)")
	_ = cmd.MarkPersistentFlagRequired("table")

	cmd.AddCommand(
		fc.newCreateCommand(),
		fc.newEditCommand(),
		fc.newListCommand(),
		fc.newShowCommand(),
		fc.newDeleteCommand(),
	)

	return cmd
}

func (c *FieldCommand) newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Add a field to a table",
		Long: `Add a field to a table. The api name is derived from the name.

Examples:
  tablekit field create "Due date" -t projects --type date --option date_format=ISO
  tablekit field create Owner -t projects --type link_to_table --option link_row_table_id=<table-id>`,
		Args: cobra.ExactArgs(1),
		RunE: c.runCreate,
	}
	cmd.Flags().String("type", "", "Field type")
	cmd.Flags().StringToString("option", nil, "Type specific setting as key=value (repeatable)")
	addOutputFlags(cmd)
	return cmd
}

func (c *FieldCommand) newEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [field]",
		Short: "Change the name, api name, type or settings of a field",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runEdit,
	}
	cmd.Flags().String("name", "", "New display name")
	cmd.Flags().String("api-name", "", "New api name")
	cmd.Flags().String("type", "", "New field type")
	cmd.Flags().StringToString("option", nil, "Type specific setting as key=value (repeatable)")
	addOutputFlags(cmd)
	return cmd
}

func (c *FieldCommand) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the fields of a table",
		Args:  cobra.NoArgs,
		RunE:  c.runList,
	}
	addOutputFlags(cmd)
	return cmd
}

func (c *FieldCommand) newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [field]",
		Short: "Show a field",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runShow,
	}
	addOutputFlags(cmd)
	return cmd
}

func (c *FieldCommand) newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [field]",
		Short: "Delete a field",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runDelete,
	}
	cmd.Flags().Bool("quiet", false, "Suppress non-error output")
	return cmd
}

// loadTable resolves the --database and --table flags
func loadTable(cmd *cobra.Command, manager *entities.Manager) (*entities.Table, error) {
	database, _ := cmd.Flags().GetString("database")
	ref, _ := cmd.Flags().GetString("table")
	return manager.Tables.Get(database, ref)
}

// fieldForm builds a field form for table; field is nil to create one
func fieldForm(cmd *cobra.Command, manager *entities.Manager, table *entities.Table, field *entities.Field) (*form.FieldForm, error) {
	registry, err := requireRegistry(cmd.Context())
	if err != nil {
		return nil, err
	}
	tables, err := databaseTables(manager, table.DatabaseID)
	if err != nil {
		return nil, err
	}
	return form.NewFieldForm(registry, *table, tables, field,
		fieldSiblings(manager, table.ID), manager.ReservedFieldNames())
}

// applyTypeAndOptions selects --type and then sets every --option
func applyTypeAndOptions(cmd *cobra.Command, f *form.FieldForm) error {
	if cmd.Flags().Changed("type") {
		registry, err := requireRegistry(cmd.Context())
		if err != nil {
			return err
		}
		key, _ := cmd.Flags().GetString("type")
		if key != "" && !registry.Has(key) {
			return fmt.Errorf("unknown field type %q (available: %s)", key, strings.Join(typeChoices(registry), ", "))
		}
		if err := f.SelectType(key); err != nil {
			return err
		}
	}

	options, _ := cmd.Flags().GetStringToString("option")
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := f.SetOption(k, options[k]); err != nil {
			return err
		}
	}
	return nil
}

func (c *FieldCommand) runCreate(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	table, err := loadTable(cmd, manager)
	if err != nil {
		return err
	}

	f, err := fieldForm(cmd, manager, table, nil)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Set(form.FieldName, args[0]); err != nil {
		return err
	}
	if err := applyTypeAndOptions(cmd, f); err != nil {
		return err
	}

	values, ok := f.Submit()
	if !ok {
		printer.PrintValidationErrors(f.Errors())
		return errValidation
	}

	if err := checkPrimaryType(cmd, manager, table, values[form.FieldType]); err != nil {
		return err
	}

	field, err := manager.Fields.Create(table, values[form.FieldName], values[form.FieldType], f.Options(values))
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}

	printer.Success(fmt.Sprintf("Created field '%s' (api name %s)", field.Name, field.APIName))
	return printer.PrintField(field)
}

func (c *FieldCommand) runEdit(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	table, err := loadTable(cmd, manager)
	if err != nil {
		return err
	}
	field, err := manager.Fields.Get(table.ID, args[0])
	if err != nil {
		return err
	}

	f, err := fieldForm(cmd, manager, table, field)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := setChangedFlags(cmd, f.Set, map[string]string{
		"name":     form.FieldName,
		"api-name": form.FieldAPIName,
	}); err != nil {
		return err
	}
	if err := applyTypeAndOptions(cmd, f); err != nil {
		return err
	}

	values, ok := f.Submit()
	if !ok {
		printer.PrintValidationErrors(f.Errors())
		return errValidation
	}

	applyFieldValues(field, values, f.Options(values))
	if err := manager.Fields.Save(field); err != nil {
		return fmt.Errorf("failed to save field: %w", err)
	}

	printer.Success(fmt.Sprintf("Updated field '%s'", field.Name))
	return printer.PrintField(field)
}

// checkPrimaryType refuses a first field whose type cannot be primary, since
// the first field of a table becomes its primary field
func checkPrimaryType(cmd *cobra.Command, manager *entities.Manager, table *entities.Table, typeKey string) error {
	registry, err := requireRegistry(cmd.Context())
	if err != nil {
		return err
	}
	siblings, err := manager.Fields.Siblings(table.ID)
	if err != nil {
		return err
	}
	if len(siblings) == 0 && !registry.Get(typeKey).CanBePrimary {
		return fmt.Errorf("the first field of '%s' becomes its primary field: %w", table.Name, form.ErrTypeNotSelectable)
	}
	return nil
}

// applyFieldValues copies submitted form values onto field
func applyFieldValues(field *entities.Field, values map[string]string, options map[string]string) {
	field.Name = values[form.FieldName]
	field.APIName = values[form.FieldAPIName]
	field.Type = values[form.FieldType]
	field.Options = options
}

func (c *FieldCommand) runList(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	table, err := loadTable(cmd, manager)
	if err != nil {
		return err
	}
	fields, err := manager.Fields.List(table.ID)
	if err != nil {
		return fmt.Errorf("failed to list fields: %w", err)
	}
	return printer.PrintFieldList(fields)
}

func (c *FieldCommand) runShow(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	table, err := loadTable(cmd, manager)
	if err != nil {
		return err
	}
	field, err := manager.Fields.Get(table.ID, args[0])
	if err != nil {
		return err
	}
	return printer.PrintField(field)
}

func (c *FieldCommand) runDelete(cmd *cobra.Command, args []string) error {
	manager, err := requireManager(cmd.Context())
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, quiet)

	table, err := loadTable(cmd, manager)
	if err != nil {
		return err
	}
	field, err := manager.Fields.Get(table.ID, args[0])
	if err != nil {
		return err
	}
	if field.Primary {
		return fmt.Errorf("cannot delete the primary field '%s'", field.Name)
	}

	if err := manager.Fields.Delete(field); err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}

	printer.Success(fmt.Sprintf("Deleted field '%s'", field.Name))
	return nil
}

// typeChoices lists the registry keys for error messages and help
func typeChoices(registry *fieldtype.Registry) []string {
	keys := make([]string, 0)
	for _, d := range registry.All() {
		keys = append(keys, d.Key)
	}
	return keys
}
