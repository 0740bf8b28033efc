package entities

import (
	"fmt"

	"github.com/n1rna/tablekit/internal/config"
	"github.com/n1rna/tablekit/internal/identifier"
	"github.com/n1rna/tablekit/internal/logger"
	"github.com/n1rna/tablekit/internal/storage"
)

// TableManager handles all table-related operations
type TableManager struct {
	storage *storage.BaseStorage
	log     *logger.Logger
}

// NewTableManager creates a new table manager
func NewTableManager(cfg *config.Config) (*TableManager, error) {
	storage, err := storage.NewBaseStorage(cfg, "tables")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize table storage: %w", err)
	}

	return &TableManager{
		storage: storage,
		log:     logger.GetLogger().With("tables"),
	}, nil
}

// Create creates a new table. The api name is derived from the name.
func (tm *TableManager) Create(databaseID, name string) (*Table, error) {
	if err := checkName("table", name); err != nil {
		return nil, err
	}

	siblings, err := tm.Siblings(databaseID)
	if err != nil {
		return nil, err
	}
	if err := checkSiblings("table", siblings, "", name, ""); err != nil {
		return nil, err
	}

	t := &Table{
		Entity:     storage.NewEntity(name, identifier.GenerateAPIName(name, apiNames(siblings, ""))),
		DatabaseID: databaseID,
	}
	t.Order = len(siblings)

	if err := tm.storage.Save(databaseID, t.Entity, t); err != nil {
		return nil, fmt.Errorf("failed to save table: %w", err)
	}

	tm.log.Info("created table %q (%s) in %s", t.Name, t.APIName, databaseID)
	return t, nil
}

// Save stores an existing table after re-checking sibling uniqueness
func (tm *TableManager) Save(t *Table) error {
	if err := checkName("table", t.Name); err != nil {
		return err
	}
	if err := checkAPIName("table", t.APIName); err != nil {
		return err
	}

	siblings, err := tm.Siblings(t.DatabaseID)
	if err != nil {
		return err
	}
	if err := checkSiblings("table", siblings, t.ID, t.Name, t.APIName); err != nil {
		return err
	}

	t.Touch()
	if err := tm.storage.Save(t.DatabaseID, t.Entity, t); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	return nil
}

// GetByID loads a table by UUID
func (tm *TableManager) GetByID(uuid string) (*Table, error) {
	var t Table
	if err := tm.storage.Load(uuid, &t); err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", uuid, err)
	}
	return &t, nil
}

// Get loads a table of databaseID by UUID, api name or name
func (tm *TableManager) Get(databaseID, ref string) (*Table, error) {
	uuid, err := tm.storage.Resolve(databaseID, ref)
	if err != nil {
		return nil, err
	}
	return tm.GetByID(uuid)
}

// List returns all tables of databaseID in order
func (tm *TableManager) List(databaseID string) ([]*Table, error) {
	summaries, err := tm.storage.List(databaseID)
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(summaries))
	for _, s := range summaries {
		t, err := tm.GetByID(s.ID)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Databases returns every database scope that holds at least one table
func (tm *TableManager) Databases() ([]string, error) {
	index, err := tm.storage.Index()
	if err != nil {
		return nil, err
	}
	return index.Parents(), nil
}

// Siblings returns the identifiers of every table of databaseID
func (tm *TableManager) Siblings(databaseID string) ([]identifier.Sibling, error) {
	summaries, err := tm.storage.List(databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return summariesToSiblings(summaries), nil
}

// Delete removes a table file and index entry
func (tm *TableManager) Delete(t *Table) error {
	if err := tm.storage.Remove(t.ID); err != nil {
		return fmt.Errorf("failed to remove table: %w", err)
	}
	tm.log.Info("deleted table %q", t.Name)
	return nil
}
