package entities

import (
	"fmt"

	"github.com/n1rna/tablekit/internal/config"
	"github.com/n1rna/tablekit/internal/identifier"
	"github.com/n1rna/tablekit/internal/logger"
)

// Manager provides a unified interface to the table and field managers
type Manager struct {
	Tables *TableManager
	Fields *FieldManager
	config *config.Config
}

// NewManager creates a new unified entity manager
func NewManager(cfg *config.Config) (*Manager, error) {
	tables, err := NewTableManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create table manager: %w", err)
	}

	fields, err := NewFieldManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create field manager: %w", err)
	}

	return &Manager{
		Tables: tables,
		Fields: fields,
		config: cfg,
	}, nil
}

// Config returns the configuration the manager was created with
func (m *Manager) Config() *config.Config {
	return m.config
}

// ReservedFieldNames returns the configured reserved field names as a set
func (m *Manager) ReservedFieldNames() identifier.ReservedSet {
	return identifier.NewReservedSet(m.config.ReservedFieldNames...)
}

// DeleteTable removes a table together with all of its fields
func (m *Manager) DeleteTable(t *Table) error {
	fields, err := m.Fields.List(t.ID)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := m.Fields.Delete(f); err != nil {
			return err
		}
	}
	return m.Tables.Delete(t)
}

// BackfillReport counts the entities that received a generated api name
type BackfillReport struct {
	Tables int `json:"tables" yaml:"tables"`
	Fields int `json:"fields" yaml:"fields"`
}

// BackfillAPINames generates an api name for every table and field that has
// none, keeping generated names unique within their scope.
func (m *Manager) BackfillAPINames() (BackfillReport, error) {
	var report BackfillReport
	log := logger.GetLogger().With("backfill")

	databases, err := m.Tables.Databases()
	if err != nil {
		return report, err
	}

	for _, db := range databases {
		tables, err := m.Tables.List(db)
		if err != nil {
			return report, err
		}

		taken := takenAPINames(tableSiblings(tables))
		for _, t := range tables {
			if t.APIName == "" {
				t.APIName = identifier.GenerateAPIName(t.Name, taken)
				taken = append(taken, t.APIName)
				if err := m.Tables.Save(t); err != nil {
					return report, fmt.Errorf("failed to backfill table %q: %w", t.Name, err)
				}
				log.Info("table %q -> %s", t.Name, t.APIName)
				report.Tables++
			}

			n, err := m.backfillFields(t, log)
			if err != nil {
				return report, err
			}
			report.Fields += n
		}
	}

	return report, nil
}

func (m *Manager) backfillFields(t *Table, log *logger.Logger) (int, error) {
	fields, err := m.Fields.List(t.ID)
	if err != nil {
		return 0, err
	}

	siblings := make([]identifier.Sibling, 0, len(fields))
	for _, f := range fields {
		siblings = append(siblings, f.Sibling())
	}
	taken := takenAPINames(siblings)

	count := 0
	for _, f := range fields {
		if f.APIName != "" {
			continue
		}
		f.APIName = identifier.GenerateAPIName(f.Name, taken)
		taken = append(taken, f.APIName)
		if err := m.Fields.Save(f); err != nil {
			return count, fmt.Errorf("failed to backfill field %q: %w", f.Name, err)
		}
		log.Info("field %q.%q -> %s", t.Name, f.Name, f.APIName)
		count++
	}
	return count, nil
}

func tableSiblings(tables []*Table) []identifier.Sibling {
	siblings := make([]identifier.Sibling, 0, len(tables))
	for _, t := range tables {
		siblings = append(siblings, t.Sibling())
	}
	return siblings
}

func takenAPINames(siblings []identifier.Sibling) []string {
	return apiNames(siblings, "")
}
