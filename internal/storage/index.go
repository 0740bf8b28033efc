package storage

import (
	"sort"
	"time"
)

// EntitySummary is the lightweight index.json record of one entity
type EntitySummary struct {
	ID        string    `json:"id"`
	Parent    string    `json:"parent"` // database id for tables, table id for fields
	Name      string    `json:"name"`
	APIName   string    `json:"api_name,omitempty"`
	Order     int       `json:"order"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Index is the structure of an index.json file. It answers sibling listings
// and name lookups without opening every entity file.
type Index struct {
	Summaries map[string]EntitySummary `json:"summaries"` // Map UUID -> EntitySummary
}

// NewIndex creates a new empty index
func NewIndex() *Index {
	return &Index{
		Summaries: make(map[string]EntitySummary),
	}
}

// AddEntity adds or replaces an entity in the index
func (idx *Index) AddEntity(parent string, entity Entity) {
	idx.Summaries[entity.ID] = EntitySummary{
		ID:        entity.ID,
		Parent:    parent,
		Name:      entity.Name,
		APIName:   entity.APIName,
		Order:     entity.Order,
		UpdatedAt: entity.UpdatedAt,
	}
}

// RemoveEntity removes an entity from the index
func (idx *Index) RemoveEntity(uuid string) {
	delete(idx.Summaries, uuid)
}

// Resolve finds an entity under parent by UUID, then api name, then name.
func (idx *Index) Resolve(parent, ref string) (string, bool) {
	if s, ok := idx.Summaries[ref]; ok && s.Parent == parent {
		return ref, true
	}
	for _, s := range idx.Summaries {
		if s.Parent == parent && s.APIName != "" && s.APIName == ref {
			return s.ID, true
		}
	}
	for _, s := range idx.Summaries {
		if s.Parent == parent && s.Name == ref {
			return s.ID, true
		}
	}
	return "", false
}

// ListSummaries returns the summaries under parent ordered by position, then name
func (idx *Index) ListSummaries(parent string) []EntitySummary {
	summaries := make([]EntitySummary, 0)
	for _, summary := range idx.Summaries {
		if summary.Parent == parent {
			summaries = append(summaries, summary)
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Order != summaries[j].Order {
			return summaries[i].Order < summaries[j].Order
		}
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

// Parents returns every distinct parent id, sorted.
func (idx *Index) Parents() []string {
	seen := make(map[string]struct{})
	for _, s := range idx.Summaries {
		seen[s.Parent] = struct{}{}
	}
	parents := make([]string, 0, len(seen))
	for p := range seen {
		parents = append(parents, p)
	}
	sort.Strings(parents)
	return parents
}
