package form

import (
	"fmt"
	"maps"

	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/fieldtype"
	"github.com/n1rna/tablekit/internal/identifier"
	"github.com/n1rna/tablekit/internal/validation"
)

// FieldForm creates or edits a field. While creating, the api name is not
// part of the form at all; it is derived when the field is stored.
type FieldForm struct {
	base
	composer *Composer
	field    *entities.Field
}

// NewFieldForm returns a form for a new field of table when field is nil, or
// for editing field otherwise. tables are the tables a link may point at.
func NewFieldForm(
	registry *fieldtype.Registry,
	table entities.Table,
	tables []entities.Table,
	field *entities.Field,
	siblings SiblingSource,
	reserved identifier.ReservedSet,
	opts ...Option,
) (*FieldForm, error) {
	selfID := ""
	defaults := validation.Values{FieldName: "", FieldType: ""}
	if field != nil {
		selfID = field.ID
		defaults[FieldName] = field.Name
		defaults[FieldType] = field.Type
		defaults[FieldAPIName] = field.APIName
	}

	snap := newSnapshot(siblings)
	schema := validation.NewSchema().
		Field(FieldName, nameRules(snap, selfID, reserved)...).
		Field(FieldType, validation.Required(validation.TypeRequired))
	if field != nil {
		schema.Field(FieldAPIName, apiNameRules(snap, selfID, true)...)
	}

	f := &FieldForm{
		base:     newBase(schema, defaults, snap, opts),
		composer: NewComposer(registry, table, tables, field),
		field:    field,
	}

	if t := defaults[FieldType]; t != "" {
		if !registry.Has(t) {
			return nil, fmt.Errorf("field %q has unknown type %q", field.Name, t)
		}
		if err := f.composer.Select(t, defaults[FieldName]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Editing reports whether the form edits an existing field
func (f *FieldForm) Editing() bool {
	return f.field != nil
}

// Set replaces the raw value of field. Setting the type switches sub-forms.
func (f *FieldForm) Set(field, value string) error {
	if field == FieldType {
		return f.SelectType(value)
	}
	return f.set(field, value)
}

// SelectType switches the field type. The previous sub-form is discarded and
// a fresh one is mounted; the warning timer is cancelled.
func (f *FieldForm) SelectType(key string) error {
	if err := f.composer.Select(key, f.values[FieldName]); err != nil {
		return err
	}
	f.values[FieldType] = key
	f.hazard.Reset()
	return nil
}

// Choices lists the types the field may be switched to
func (f *FieldForm) Choices() []fieldtype.Descriptor {
	return f.composer.Choices()
}

// SubForm returns the settings of the selected type, or nil
func (f *FieldForm) SubForm() fieldtype.SubForm {
	return f.composer.SubForm()
}

// SetOption sets a setting of the mounted sub-form
func (f *FieldForm) SetOption(key, value string) error {
	sf := f.composer.SubForm()
	if sf == nil {
		return fmt.Errorf("type %q has no setting %q", f.values[FieldType], key)
	}
	return sf.Set(key, value)
}

// TouchOption touches a setting of the mounted sub-form
func (f *FieldForm) TouchOption(key string) {
	if sf := f.composer.SubForm(); sf != nil {
		sf.Touch(key)
	}
}

// Errors returns the highest priority failure of every touched field and
// sub-form setting
func (f *FieldForm) Errors() map[string]validation.ErrorKind {
	defer f.siblings.pass()()
	errs := f.engine.Visible(f.values)
	if sf := f.composer.SubForm(); sf != nil {
		maps.Copy(errs, sf.Errors())
	}
	return errs
}

// Valid reports whether the form and the mounted sub-form can be submitted
func (f *FieldForm) Valid() bool {
	defer f.siblings.pass()()
	return f.composer.Valid(f.engine.IsValid(f.values))
}

// Submit touches every field and setting and, when everything is valid,
// releases the warning timer and returns a copy of the values merged with the
// sub-form settings.
func (f *FieldForm) Submit() (validation.Values, bool) {
	f.engine.TouchAll()
	sf := f.composer.SubForm()
	if sf != nil {
		sf.TouchAll()
	}
	if !f.Valid() {
		return nil, false
	}
	f.hazard.Reset()

	out := f.values.Clone()
	if sf != nil {
		maps.Copy(out, sf.Values())
	}
	return out, true
}

// Cancel restores the field's values and type and clears touched and warning
// state
func (f *FieldForm) Cancel() {
	f.restore()
	// The default type was selectable when the form was built
	_ = f.composer.Select(f.defaults[FieldType], f.defaults[FieldName])
}

// Options extracts the sub-form settings from submitted values
func (f *FieldForm) Options(values validation.Values) map[string]string {
	sf := f.composer.SubForm()
	if sf == nil {
		return nil
	}
	out := make(map[string]string)
	for _, in := range sf.Inputs() {
		out[in.Key] = values[in.Key]
	}
	return out
}
