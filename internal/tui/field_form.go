package tui

import (
	"fmt"

	"github.com/n1rna/tablekit/internal/fieldtype"
	"github.com/n1rna/tablekit/internal/form"
	"github.com/n1rna/tablekit/internal/validation"
)

// fieldAdapter drives a form.FieldForm from the shell
type fieldAdapter struct {
	form      *form.FieldForm
	tableName string
	values    validation.Values
}

func (a *fieldAdapter) title() string {
	if a.form.Editing() {
		return fmt.Sprintf("Edit field %q in %q", a.form.Value(form.FieldName), a.tableName)
	}
	return fmt.Sprintf("New field in %q", a.tableName)
}

func (a *fieldAdapter) rows() []row {
	types := make([]fieldtype.Choice, 0)
	for _, d := range a.form.Choices() {
		types = append(types, fieldtype.Choice{Value: d.Key, Label: d.DisplayName})
	}

	rows := []row{
		newTextRow(form.FieldName, "Name", a.form.Value(form.FieldName), false),
		newChoiceRow(form.FieldType, "Type", a.form.Value(form.FieldType), types, false),
	}
	if a.form.Editing() {
		rows = append(rows, newTextRow(form.FieldAPIName, "API name", a.form.Value(form.FieldAPIName), false))
	}

	if sf := a.form.SubForm(); sf != nil {
		for _, in := range sf.Inputs() {
			if len(in.Choices) > 0 {
				rows = append(rows, newChoiceRow(in.Key, in.Label, sf.Value(in.Key), in.Choices, true))
			} else {
				rows = append(rows, newTextRow(in.Key, in.Label, sf.Value(in.Key), true))
			}
		}
	}
	return rows
}

func (a *fieldAdapter) set(r row) (bool, error) {
	if r.option {
		return false, a.form.SetOption(r.key, r.value())
	}
	if r.key == form.FieldType {
		// A new type mounts a different sub-form
		return true, a.form.SelectType(r.value())
	}
	return false, a.form.Set(r.key, r.value())
}

func (a *fieldAdapter) focus(r row) {
	if !r.option {
		a.form.Focus(r.key)
	}
}

func (a *fieldAdapter) blur(r row) {
	if r.option {
		a.form.TouchOption(r.key)
		return
	}
	a.form.Blur(r.key)
}

func (a *fieldAdapter) errors() map[string]validation.ErrorKind {
	return a.form.Errors()
}

func (a *fieldAdapter) hazardVisible() bool {
	return a.form.HazardVisible()
}

func (a *fieldAdapter) apiName() string {
	return a.form.Value(form.FieldAPIName)
}

func (a *fieldAdapter) submit() bool {
	values, ok := a.form.Submit()
	if ok {
		a.values = values
	}
	return ok
}

func (a *fieldAdapter) cancel() { a.form.Cancel() }
func (a *fieldAdapter) close()  { a.form.Close() }
