package form

import (
	"errors"
	"fmt"

	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/fieldtype"
)

// ErrTypeNotSelectable is returned when a primary field is switched to a type
// that cannot be primary.
var ErrTypeNotSelectable = errors.New("type cannot be used for the primary field")

// Composer mounts the sub-form of the selected field type and folds its
// validity into the parent form.
type Composer struct {
	registry *fieldtype.Registry
	table    entities.Table
	tables   []entities.Table
	field    *entities.Field // nil while creating

	selected string
	subForm  fieldtype.SubForm
}

// NewComposer returns a composer with nothing selected. field is the entity
// being edited, or nil when creating one.
func NewComposer(registry *fieldtype.Registry, table entities.Table, tables []entities.Table, field *entities.Field) *Composer {
	return &Composer{
		registry: registry,
		table:    table,
		tables:   tables,
		field:    field,
	}
}

func (c *Composer) primary() bool {
	return c.field != nil && c.field.Primary
}

// Choices lists the descriptors that may be selected for this field
func (c *Composer) Choices() []fieldtype.Descriptor {
	all := c.registry.All()
	if !c.primary() {
		return all
	}
	out := make([]fieldtype.Descriptor, 0, len(all))
	for _, d := range all {
		if d.CanBePrimary {
			out = append(out, d)
		}
	}
	return out
}

// Select discards the current sub-form and mounts a fresh one for key. An
// empty key unmounts. key must be registered.
func (c *Composer) Select(key, name string) error {
	if key == "" {
		c.selected = ""
		c.subForm = nil
		return nil
	}

	d := c.registry.Get(key)
	if c.primary() && !d.CanBePrimary {
		return fmt.Errorf("%s: %w", key, ErrTypeNotSelectable)
	}

	c.selected = key
	c.subForm = nil
	if !d.HasSubForm() {
		return nil
	}

	ctx := fieldtype.Context{
		Table:     c.table,
		Tables:    c.tables,
		FieldType: key,
		Name:      name,
	}
	if c.field != nil && c.field.Type == key {
		ctx.Defaults = c.field.CloneOptions()
	}
	c.subForm = d.SubForm(ctx)
	return nil
}

// Selected returns the selected type key
func (c *Composer) Selected() string {
	return c.selected
}

// SubForm returns the mounted sub-form, or nil
func (c *Composer) SubForm() fieldtype.SubForm {
	return c.subForm
}

// Valid combines the parent's validity with the mounted sub-form's
func (c *Composer) Valid(parentValid bool) bool {
	if !parentValid {
		return false
	}
	return c.subForm == nil || c.subForm.Valid()
}
