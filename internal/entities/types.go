// Package entities defines tables and fields and the managers that persist
// them. Managers are the sibling-entity providers the forms validate against.
package entities

import (
	"errors"
	"fmt"
	"maps"

	"github.com/n1rna/tablekit/internal/identifier"
	"github.com/n1rna/tablekit/internal/storage"
)

var (
	// ErrNotFound is returned when a table or field reference resolves to nothing
	ErrNotFound = storage.ErrEntityNotFound
	// ErrConflict is returned when a save would break sibling uniqueness
	ErrConflict = errors.New("conflicts with an existing sibling")
	// ErrInvalid is returned when a value cannot be stored at all
	ErrInvalid = errors.New("invalid value")
)

// DefaultDatabase is the scope used when none is given
const DefaultDatabase = "default"

// Table is a user-defined table inside a database scope
type Table struct {
	storage.Entity `yaml:",inline"`
	DatabaseID     string `json:"database_id" yaml:"database_id"`
}

// Sibling returns the identifiers uniqueness checks compare against
func (t Table) Sibling() identifier.Sibling {
	return identifier.Sibling{ID: t.ID, Name: t.Name, APIName: t.APIName}
}

// Field is a column of a table
type Field struct {
	storage.Entity `yaml:",inline"`
	TableID        string            `json:"table_id" yaml:"table_id"`
	Type           string            `json:"type" yaml:"type"`                           // Key into the field type registry
	Primary        bool              `json:"primary" yaml:"primary"`                     // Whether this is the table's primary field
	Options        map[string]string `json:"options,omitempty" yaml:"options,omitempty"` // Type-specific settings
}

// Sibling returns the identifiers uniqueness checks compare against
func (f Field) Sibling() identifier.Sibling {
	return identifier.Sibling{ID: f.ID, Name: f.Name, APIName: f.APIName}
}

// CloneOptions returns a copy of the type-specific settings
func (f Field) CloneOptions() map[string]string {
	out := make(map[string]string, len(f.Options))
	maps.Copy(out, f.Options)
	return out
}

func summariesToSiblings(summaries []storage.EntitySummary) []identifier.Sibling {
	siblings := make([]identifier.Sibling, 0, len(summaries))
	for _, s := range summaries {
		siblings = append(siblings, identifier.Sibling{ID: s.ID, Name: s.Name, APIName: s.APIName})
	}
	return siblings
}

func apiNames(siblings []identifier.Sibling, excludeID string) []string {
	names := make([]string, 0, len(siblings))
	for _, s := range siblings {
		if s.ID == excludeID || s.APIName == "" {
			continue
		}
		names = append(names, s.APIName)
	}
	return names
}

// checkSiblings reports ErrConflict when name or api name of the entity with
// id collides with a sibling. It is the store-side counterpart of the form
// rules and catches races between two open forms.
func checkSiblings(kind string, siblings []identifier.Sibling, id, name, apiName string) error {
	if !identifier.IsUniqueAmong(name, siblings, identifier.ByName, id) {
		return fmt.Errorf("%s name %q: %w", kind, name, ErrConflict)
	}
	if apiName != "" && !identifier.IsUniqueAmong(apiName, siblings, identifier.ByAPIName, id) {
		return fmt.Errorf("%s api name %q: %w", kind, apiName, ErrConflict)
	}
	return nil
}

// checkName applies the hard limits every stored name must respect
func checkName(kind, name string) error {
	if !identifier.IsNonEmpty(name) {
		return fmt.Errorf("%s name cannot be empty: %w", kind, ErrInvalid)
	}
	if !identifier.IsWithinLength(name, identifier.MaxLength) {
		return fmt.Errorf("%s name longer than %d characters: %w", kind, identifier.MaxLength, ErrInvalid)
	}
	return nil
}

// checkAPIName rejects api names that are set but not safe identifiers
func checkAPIName(kind, apiName string) error {
	if apiName == "" {
		return nil
	}
	if !identifier.IsValidAPIName(apiName) || !identifier.IsWithinLength(apiName, identifier.MaxLength) {
		return fmt.Errorf("%s api name %q: %w", kind, apiName, ErrInvalid)
	}
	return nil
}
