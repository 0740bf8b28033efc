package tui

import (
	"fmt"

	"github.com/n1rna/tablekit/internal/form"
	"github.com/n1rna/tablekit/internal/validation"
)

// tableAdapter drives a form.TableForm from the shell
type tableAdapter struct {
	form   *form.TableForm
	name   string
	values validation.Values
}

func (a *tableAdapter) title() string {
	return fmt.Sprintf("Rename table %q", a.name)
}

func (a *tableAdapter) rows() []row {
	return []row{
		newTextRow(form.FieldName, "Name", a.form.Value(form.FieldName), false),
		newTextRow(form.FieldAPIName, "API name", a.form.Value(form.FieldAPIName), false),
	}
}

func (a *tableAdapter) set(r row) (bool, error) {
	return false, a.form.Set(r.key, r.value())
}

func (a *tableAdapter) focus(r row) { a.form.Focus(r.key) }
func (a *tableAdapter) blur(r row)  { a.form.Blur(r.key) }

func (a *tableAdapter) errors() map[string]validation.ErrorKind {
	return a.form.Errors()
}

func (a *tableAdapter) hazardVisible() bool {
	return a.form.HazardVisible()
}

func (a *tableAdapter) apiName() string {
	return a.form.Value(form.FieldAPIName)
}

func (a *tableAdapter) submit() bool {
	values, ok := a.form.Submit()
	if ok {
		a.values = values
	}
	return ok
}

func (a *tableAdapter) cancel() { a.form.Cancel() }
func (a *tableAdapter) close()  { a.form.Close() }
