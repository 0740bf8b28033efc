package entities

import (
	"errors"
	"testing"

	"github.com/n1rna/tablekit/internal/config"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()

	cfg := &config.Config{BaseDir: t.TempDir(), ReservedFieldNames: config.DefaultReservedFieldNames}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestTableCreateGeneratesAPIName(t *testing.T) {
	m := setupManager(t)

	first, err := m.Tables.Create(DefaultDatabase, "Customer Orders")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.APIName != "customer_orders" {
		t.Errorf("APIName = %q, want customer_orders", first.APIName)
	}

	second, err := m.Tables.Create(DefaultDatabase, "Customer  Orders!")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if second.APIName != "customer_orders_2" {
		t.Errorf("APIName = %q, want customer_orders_2", second.APIName)
	}
	if second.Order != 1 {
		t.Errorf("Order = %d, want 1", second.Order)
	}
}

func TestTableCreateRejectsDuplicateName(t *testing.T) {
	m := setupManager(t)

	if _, err := m.Tables.Create(DefaultDatabase, "Projects"); err != nil {
		t.Fatal(err)
	}
	_, err := m.Tables.Create(DefaultDatabase, "Projects")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}

	// Other databases are independent scopes
	if _, err := m.Tables.Create("other", "Projects"); err != nil {
		t.Errorf("Create() in other database error = %v", err)
	}
}

func TestTableCreateRejectsInvalidName(t *testing.T) {
	m := setupManager(t)

	for _, name := range []string{"", "   "} {
		if _, err := m.Tables.Create(DefaultDatabase, name); !errors.Is(err, ErrInvalid) {
			t.Errorf("Create(%q) error = %v, want ErrInvalid", name, err)
		}
	}
}

func TestTableSaveChecksSiblings(t *testing.T) {
	m := setupManager(t)

	a, _ := m.Tables.Create(DefaultDatabase, "Alpha")
	b, _ := m.Tables.Create(DefaultDatabase, "Beta")

	b.APIName = a.APIName
	if err := m.Tables.Save(b); !errors.Is(err, ErrConflict) {
		t.Errorf("Save() error = %v, want ErrConflict", err)
	}

	b.APIName = "bad name"
	if err := m.Tables.Save(b); !errors.Is(err, ErrInvalid) {
		t.Errorf("Save() error = %v, want ErrInvalid", err)
	}

	// Saving unchanged values must not collide with itself
	a.Name = "Alpha Renamed"
	if err := m.Tables.Save(a); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := m.Tables.Get(DefaultDatabase, "alpha")
	if err != nil {
		t.Fatalf("Get() by api name error = %v", err)
	}
	if got.Name != "Alpha Renamed" {
		t.Errorf("Name = %q, want Alpha Renamed", got.Name)
	}
}

func TestTableGetUnknown(t *testing.T) {
	m := setupManager(t)

	if _, err := m.Tables.Get(DefaultDatabase, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestFieldCreateMarksFirstPrimary(t *testing.T) {
	m := setupManager(t)
	table, _ := m.Tables.Create(DefaultDatabase, "People")

	name, err := m.Fields.Create(table, "Full Name", "text", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	email, err := m.Fields.Create(table, "E-mail", "email", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !name.Primary || email.Primary {
		t.Errorf("Primary = %v/%v, want true/false", name.Primary, email.Primary)
	}
	if email.APIName != "e_mail" {
		t.Errorf("APIName = %q, want e_mail", email.APIName)
	}

	fields, err := m.Fields.List(table.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 2 || fields[0].ID != name.ID || fields[1].ID != email.ID {
		t.Errorf("List() = %v, want fields in creation order", fields)
	}
}

func TestFieldCreateRequiresType(t *testing.T) {
	m := setupManager(t)
	table, _ := m.Tables.Create(DefaultDatabase, "People")

	if _, err := m.Fields.Create(table, "Name", "", nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("Create() error = %v, want ErrInvalid", err)
	}
}

func TestFieldNamesScopedPerTable(t *testing.T) {
	m := setupManager(t)
	a, _ := m.Tables.Create(DefaultDatabase, "A")
	b, _ := m.Tables.Create(DefaultDatabase, "B")

	if _, err := m.Fields.Create(a, "Name", "text", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Fields.Create(a, "Name", "text", nil); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate in same table error = %v, want ErrConflict", err)
	}
	if _, err := m.Fields.Create(b, "Name", "text", nil); err != nil {
		t.Errorf("same name in other table error = %v", err)
	}
}

func TestDeleteTableCascades(t *testing.T) {
	m := setupManager(t)
	table, _ := m.Tables.Create(DefaultDatabase, "Temp")
	f, _ := m.Fields.Create(table, "Name", "text", nil)

	if err := m.DeleteTable(table); err != nil {
		t.Fatalf("DeleteTable() error = %v", err)
	}
	if _, err := m.Fields.GetByID(f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("field still present: %v", err)
	}
	if _, err := m.Tables.GetByID(table.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("table still present: %v", err)
	}
}

func TestBackfillAPINames(t *testing.T) {
	m := setupManager(t)

	orders, _ := m.Tables.Create(DefaultDatabase, "Orders")
	legacy, _ := m.Tables.Create(DefaultDatabase, "Orders Archive")
	total, _ := m.Fields.Create(orders, "Total", "number", nil)
	total2, _ := m.Fields.Create(orders, "Total!", "number", nil)

	// Simulate rows written before api names existed
	legacy.APIName = ""
	if err := m.Tables.Save(legacy); err != nil {
		t.Fatal(err)
	}
	total.APIName = ""
	if err := m.Fields.Save(total); err != nil {
		t.Fatal(err)
	}

	report, err := m.BackfillAPINames()
	if err != nil {
		t.Fatalf("BackfillAPINames() error = %v", err)
	}
	if report != (BackfillReport{Tables: 1, Fields: 1}) {
		t.Errorf("report = %+v, want 1 table and 1 field", report)
	}

	got, _ := m.Tables.GetByID(legacy.ID)
	if got.APIName != "orders_archive" {
		t.Errorf("table APIName = %q, want orders_archive", got.APIName)
	}

	// total2 already owns "total_2"; backfilled "Total" gets the free base name
	gotField, _ := m.Fields.GetByID(total.ID)
	if gotField.APIName != "total" {
		t.Errorf("field APIName = %q, want total (sibling has %q)", gotField.APIName, total2.APIName)
	}

	again, err := m.BackfillAPINames()
	if err != nil {
		t.Fatal(err)
	}
	if again != (BackfillReport{}) {
		t.Errorf("second run = %+v, want nothing to do", again)
	}
}
