package storage

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base structure shared by tables and fields: a UUID, the two
// identifiers and bookkeeping timestamps.
type Entity struct {
	ID        string    `json:"id" yaml:"id"`                                 // UUID, assigned on creation
	Name      string    `json:"name" yaml:"name"`                             // Human-readable name
	APIName   string    `json:"api_name,omitempty" yaml:"api_name,omitempty"` // Programmatic identifier; empty on legacy rows
	Order     int       `json:"order" yaml:"order"`                           // Position among siblings
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewEntity creates a new entity with generated UUID and current timestamps
func NewEntity(name, apiName string) Entity {
	now := time.Now()
	return Entity{
		ID:        uuid.New().String(),
		Name:      name,
		APIName:   apiName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps the update timestamp.
func (e *Entity) Touch() {
	e.UpdatedAt = time.Now()
}
