package entities

import (
	"fmt"

	"github.com/n1rna/tablekit/internal/config"
	"github.com/n1rna/tablekit/internal/identifier"
	"github.com/n1rna/tablekit/internal/logger"
	"github.com/n1rna/tablekit/internal/storage"
)

// FieldManager handles all field-related operations
type FieldManager struct {
	storage *storage.BaseStorage
	log     *logger.Logger
}

// NewFieldManager creates a new field manager
func NewFieldManager(cfg *config.Config) (*FieldManager, error) {
	storage, err := storage.NewBaseStorage(cfg, "fields")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize field storage: %w", err)
	}

	return &FieldManager{
		storage: storage,
		log:     logger.GetLogger().With("fields"),
	}, nil
}

// Create adds a field to table. The api name is derived from the name and the
// first field of a table becomes its primary field.
func (fm *FieldManager) Create(table *Table, name, fieldType string, options map[string]string) (*Field, error) {
	if err := checkName("field", name); err != nil {
		return nil, err
	}
	if fieldType == "" {
		return nil, fmt.Errorf("field type cannot be empty: %w", ErrInvalid)
	}

	siblings, err := fm.Siblings(table.ID)
	if err != nil {
		return nil, err
	}
	if err := checkSiblings("field", siblings, "", name, ""); err != nil {
		return nil, err
	}

	f := &Field{
		Entity:  storage.NewEntity(name, identifier.GenerateAPIName(name, apiNames(siblings, ""))),
		TableID: table.ID,
		Type:    fieldType,
		Primary: len(siblings) == 0,
		Options: options,
	}
	f.Order = len(siblings)

	if err := fm.storage.Save(table.ID, f.Entity, f); err != nil {
		return nil, fmt.Errorf("failed to save field: %w", err)
	}

	fm.log.Info("created field %q (%s, %s) in table %s", f.Name, f.APIName, f.Type, table.ID)
	return f, nil
}

// Save stores an existing field after re-checking sibling uniqueness
func (fm *FieldManager) Save(f *Field) error {
	if err := checkName("field", f.Name); err != nil {
		return err
	}
	if err := checkAPIName("field", f.APIName); err != nil {
		return err
	}

	siblings, err := fm.Siblings(f.TableID)
	if err != nil {
		return err
	}
	if err := checkSiblings("field", siblings, f.ID, f.Name, f.APIName); err != nil {
		return err
	}

	f.Touch()
	if err := fm.storage.Save(f.TableID, f.Entity, f); err != nil {
		return fmt.Errorf("failed to save field: %w", err)
	}
	return nil
}

// GetByID loads a field by UUID
func (fm *FieldManager) GetByID(uuid string) (*Field, error) {
	var f Field
	if err := fm.storage.Load(uuid, &f); err != nil {
		return nil, fmt.Errorf("failed to load field %s: %w", uuid, err)
	}
	return &f, nil
}

// Get loads a field of tableID by UUID, api name or name
func (fm *FieldManager) Get(tableID, ref string) (*Field, error) {
	uuid, err := fm.storage.Resolve(tableID, ref)
	if err != nil {
		return nil, err
	}
	return fm.GetByID(uuid)
}

// List returns all fields of tableID in order
func (fm *FieldManager) List(tableID string) ([]*Field, error) {
	summaries, err := fm.storage.List(tableID)
	if err != nil {
		return nil, err
	}

	fields := make([]*Field, 0, len(summaries))
	for _, s := range summaries {
		f, err := fm.GetByID(s.ID)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Siblings returns the identifiers of every field of tableID
func (fm *FieldManager) Siblings(tableID string) ([]identifier.Sibling, error) {
	summaries, err := fm.storage.List(tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	return summariesToSiblings(summaries), nil
}

// Delete removes a field file and index entry
func (fm *FieldManager) Delete(f *Field) error {
	if err := fm.storage.Remove(f.ID); err != nil {
		return fmt.Errorf("failed to remove field: %w", err)
	}
	fm.log.Info("deleted field %q", f.Name)
	return nil
}
