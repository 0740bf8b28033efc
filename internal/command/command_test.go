package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/n1rna/tablekit/internal/config"
	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/fieldtype"
	"github.com/n1rna/tablekit/internal/form"
)

func setupManager(t *testing.T) *entities.Manager {
	t.Helper()
	cfg := &config.Config{BaseDir: t.TempDir(), ReservedFieldNames: config.DefaultReservedFieldNames}
	m, err := entities.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

// execute runs args against a fresh command tree so flag state never leaks
func execute(t *testing.T, m *entities.Manager, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "tablekit", SilenceUsage: true, SilenceErrors: true}
	root.AddGroup(
		&cobra.Group{ID: "entities", Title: "Entity Management:"},
		&cobra.Group{ID: "global", Title: "Global Commands:"},
	)
	root.AddCommand(
		NewTableCommand("entities"),
		NewFieldCommand("entities"),
		NewTypesCommand("entities"),
		NewBackfillCommand("global"),
	)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	ctx := WithEntityManager(context.Background(), m)
	ctx = WithRegistry(ctx, fieldtype.NewDefaultRegistry())
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func TestTableCreateAndList(t *testing.T) {
	m := setupManager(t)

	out, err := execute(t, m, "table", "create", "Customer Orders")
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if !strings.Contains(out, "customer_orders") {
		t.Errorf("output = %q, want generated api name", out)
	}

	out, err = execute(t, m, "table", "list", "--format", "json")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	var tables []entities.Table
	if err := json.Unmarshal([]byte(out), &tables); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, out)
	}
	if len(tables) != 1 || tables[0].APIName != "customer_orders" {
		t.Errorf("tables = %+v", tables)
	}
}

func TestTableRenameValidation(t *testing.T) {
	m := setupManager(t)
	if _, err := execute(t, m, "table", "create", "Customers"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, m, "table", "create", "Orders"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantOut string
	}{
		{"double underscore", []string{"--api-name", "my__id"}, errValidation, "single underscores"},
		{"duplicate api name", []string{"--api-name", "orders"}, errValidation, "API name already exists"},
		{"duplicate name", []string{"--name", "Orders"}, errValidation, "name already exists"},
		{"nothing to change", nil, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"table", "rename", "customers"}, tt.args...)
			out, err := execute(t, m, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want %q", out, tt.wantOut)
			}
		})
	}
}

func TestTableRename(t *testing.T) {
	m := setupManager(t)
	if _, err := execute(t, m, "table", "create", "Customers"); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, m, "table", "rename", "Customers", "--name", "Clients", "--api-name", "clients"); err != nil {
		t.Fatalf("rename error = %v", err)
	}

	table, err := m.Tables.Get(entities.DefaultDatabase, "clients")
	if err != nil {
		t.Fatalf("renamed table not found: %v", err)
	}
	if table.Name != "Clients" {
		t.Errorf("Name = %q, want Clients", table.Name)
	}
}

func TestFieldCreate(t *testing.T) {
	m := setupManager(t)
	if _, err := execute(t, m, "table", "create", "Projects"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, m, "field", "create", "Due date", "-t", "projects", "--type", "date", "--option", "date_format=ISO")
	if err != nil {
		t.Fatalf("create error = %v\n%s", err, out)
	}

	table, _ := m.Tables.Get(entities.DefaultDatabase, "projects")
	field, err := m.Fields.Get(table.ID, "due_date")
	if err != nil {
		t.Fatalf("field not stored: %v", err)
	}
	if field.Type != fieldtype.Date || field.Options[fieldtype.OptionDateFormat] != "ISO" || !field.Primary {
		t.Errorf("field = %+v", field)
	}
}

func TestFieldCreateErrors(t *testing.T) {
	m := setupManager(t)
	if _, err := execute(t, m, "table", "create", "Projects"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantOut string
		wantErr string
	}{
		{"reserved", []string{"id", "--type", "text"}, "reserved", ""},
		{"missing type", []string{"Notes"}, "Choose a field type", ""},
		{"unknown type", []string{"Score", "--type", "rating"}, "", "unknown field type"},
		{"link without table", []string{"Owner", "--type", "link_to_table"}, "Choose the table", ""},
		{"option without sub-form", []string{"Notes", "--type", "text", "--option", "date_format=EU"}, "", "no setting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"field", "create", "-t", "projects"}, tt.args...)
			out, err := execute(t, m, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want %q", out, tt.wantOut)
			}
		})
	}
}

func TestFieldCreateFirstFieldMustBePrimaryType(t *testing.T) {
	m := setupManager(t)
	if _, err := execute(t, m, "table", "create", "Projects"); err != nil {
		t.Fatal(err)
	}
	table, _ := m.Tables.Get(entities.DefaultDatabase, "projects")

	_, err := execute(t, m, "field", "create", "Owner", "-t", "projects",
		"--type", "link_to_table", "--option", "link_row_table_id="+table.ID)
	if !errors.Is(err, form.ErrTypeNotSelectable) {
		t.Fatalf("error = %v, want ErrTypeNotSelectable", err)
	}

	if _, err := execute(t, m, "field", "create", "Name", "-t", "projects", "--type", "text"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, m, "field", "create", "Owner", "-t", "projects",
		"--type", "link_to_table", "--option", "link_row_table_id="+table.ID); err != nil {
		t.Fatalf("link as second field error = %v", err)
	}
}

func TestFieldEdit(t *testing.T) {
	m := setupManager(t)
	if _, err := execute(t, m, "table", "create", "Projects"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, m, "field", "create", "Name", "-t", "projects", "--type", "text"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, m, "field", "create", "Budget", "-t", "projects", "--type", "number"); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, m, "field", "edit", "budget", "-t", "projects", "--api-name", "name"); !errors.Is(err, errValidation) {
		t.Errorf("duplicate api name error = %v, want errValidation", err)
	}

	// The primary field cannot become a link
	if _, err := execute(t, m, "field", "edit", "name", "-t", "projects", "--type", "link_to_table"); err == nil {
		t.Error("expected primary field type error")
	}

	if _, err := execute(t, m, "field", "edit", "budget", "-t", "projects", "--api-name", "total_budget"); err != nil {
		t.Fatalf("edit error = %v", err)
	}
	table, _ := m.Tables.Get(entities.DefaultDatabase, "projects")
	if _, err := m.Fields.Get(table.ID, "total_budget"); err != nil {
		t.Errorf("edited field not found: %v", err)
	}
}

func TestTypesYAML(t *testing.T) {
	out, err := execute(t, setupManager(t), "types", "--format", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "key: link_to_table") || !strings.Contains(out, "can_be_primary: false") {
		t.Errorf("types output = %q", out)
	}
}

func TestBackfill(t *testing.T) {
	m := setupManager(t)
	table, err := m.Tables.Create(entities.DefaultDatabase, "Legacy Table")
	if err != nil {
		t.Fatal(err)
	}
	table.APIName = ""
	if err := m.Tables.Save(table); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, m, "backfill", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var report entities.BackfillReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("backfill output is not JSON: %v\n%s", err, out)
	}
	if report.Tables != 1 {
		t.Errorf("report = %+v, want one table", report)
	}
}
