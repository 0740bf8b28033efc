package form

import (
	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/validation"
)

// TableForm renames a table. Both name and api name are editable and must be
// unique among the tables of the same database.
type TableForm struct {
	base
	table entities.Table
}

// NewTableForm returns a form prefilled from table. A table stored without an
// api name may keep it empty.
func NewTableForm(table entities.Table, siblings SiblingSource, opts ...Option) *TableForm {
	snap := newSnapshot(siblings)
	schema := validation.NewSchema().
		Field(FieldName, nameRules(snap, table.ID, nil)...).
		Field(FieldAPIName, apiNameRules(snap, table.ID, table.APIName != "")...)

	defaults := validation.Values{
		FieldName:    table.Name,
		FieldAPIName: table.APIName,
	}

	return &TableForm{
		base:  newBase(schema, defaults, snap, opts),
		table: table,
	}
}

// Set replaces the raw value of field
func (f *TableForm) Set(field, value string) error {
	return f.set(field, value)
}

// Errors returns the highest priority failure of every touched field
func (f *TableForm) Errors() map[string]validation.ErrorKind {
	defer f.siblings.pass()()
	return f.engine.Visible(f.values)
}

// Valid reports whether the current values can be submitted
func (f *TableForm) Valid() bool {
	defer f.siblings.pass()()
	return f.engine.IsValid(f.values)
}

// Submit touches every field and, when the values are valid, releases the
// warning timer and returns a copy of them. A failed submit leaves the
// warning as it is.
func (f *TableForm) Submit() (validation.Values, bool) {
	f.engine.TouchAll()
	if !f.Valid() {
		return nil, false
	}
	f.hazard.Reset()
	return f.values.Clone(), true
}

// Cancel restores the table's values and clears touched and warning state
func (f *TableForm) Cancel() {
	f.restore()
}

// Apply copies submitted values onto a copy of the table being edited
func (f *TableForm) Apply(values validation.Values) entities.Table {
	t := f.table
	t.Name = values[FieldName]
	t.APIName = values[FieldAPIName]
	return t
}
