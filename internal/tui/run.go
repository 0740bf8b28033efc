package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/fieldtype"
	"github.com/n1rna/tablekit/internal/form"
	"github.com/n1rna/tablekit/internal/identifier"
	"github.com/n1rna/tablekit/internal/validation"
)

// relay forwards hazard changes from the timer goroutine to the program
type relay struct {
	program *tea.Program
}

func (r *relay) send(visible bool) {
	if r.program != nil {
		r.program.Send(HazardMsg(visible))
	}
}

func run(m *Model, r *relay) error {
	r.program = tea.NewProgram(m, tea.WithAltScreen())
	if _, err := r.program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// EditTable runs the rename form for table. It returns the renamed copy and
// false when the user quit without saving.
func EditTable(table entities.Table, siblings form.SiblingSource) (entities.Table, bool, error) {
	r := &relay{}
	f := form.NewTableForm(table, siblings, form.WithHazardObserver(r.send))
	a := &tableAdapter{form: f, name: table.Name}
	defer f.Close()

	m := newModel(a)
	if err := run(m, r); err != nil {
		return table, false, err
	}
	if !m.Submitted() {
		return table, false, nil
	}
	return f.Apply(a.values), true, nil
}

// FieldResult is what a submitted field form produced
type FieldResult struct {
	Values  validation.Values
	Options map[string]string
}

// EditField runs the field form. field is nil to create a new field.
func EditField(
	registry *fieldtype.Registry,
	table entities.Table,
	tables []entities.Table,
	field *entities.Field,
	siblings form.SiblingSource,
	reserved identifier.ReservedSet,
) (FieldResult, bool, error) {
	r := &relay{}
	f, err := form.NewFieldForm(registry, table, tables, field, siblings, reserved, form.WithHazardObserver(r.send))
	if err != nil {
		return FieldResult{}, false, err
	}
	a := &fieldAdapter{form: f, tableName: table.Name}
	defer f.Close()

	m := newModel(a)
	if err := run(m, r); err != nil {
		return FieldResult{}, false, err
	}
	if !m.Submitted() {
		return FieldResult{}, false, nil
	}
	return FieldResult{Values: a.values, Options: f.Options(a.values)}, true, nil
}
