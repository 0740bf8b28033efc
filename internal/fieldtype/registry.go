// Package fieldtype holds the registry of field types. Each descriptor says
// how a type is shown, whether it may back a primary field and which extra
// settings it needs.
package fieldtype

import (
	"fmt"

	"github.com/n1rna/tablekit/internal/entities"
)

// Context is what a sub-form is bound to when it is mounted
type Context struct {
	Table     entities.Table    // Table the field belongs to
	Tables    []entities.Table  // Tables of the same database
	FieldType string            // Type being mounted
	Name      string            // Current field name
	Defaults  map[string]string // Persisted settings; empty unless editing a field of this type
}

// Provider builds a fresh sub-form bound to ctx
type Provider func(ctx Context) SubForm

// Descriptor is the registered metadata and behaviour of one field type
type Descriptor struct {
	Key          string
	DisplayName  string
	IconClass    string
	CanBePrimary bool
	SubForm      Provider // nil when the type has no extra settings
}

// HasSubForm reports whether the type mounts extra settings
func (d Descriptor) HasSubForm() bool {
	return d.SubForm != nil
}

// Registry maps type keys to descriptors. It is filled at startup and only
// read afterwards, so it is shared between forms without locking.
type Registry struct {
	byKey  map[string]Descriptor
	order  []string
	frozen bool
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Descriptor)}
}

// Register adds d. Registering an empty or duplicate key, or registering after
// Freeze, is a programming error and panics.
func (r *Registry) Register(d Descriptor) {
	if r.frozen {
		panic(fmt.Sprintf("fieldtype: register %q on frozen registry", d.Key))
	}
	if d.Key == "" {
		panic("fieldtype: register with empty key")
	}
	if _, exists := r.byKey[d.Key]; exists {
		panic(fmt.Sprintf("fieldtype: duplicate key %q", d.Key))
	}
	r.byKey[d.Key] = d
	r.order = append(r.order, d.Key)
}

// Freeze rejects all later registrations
func (r *Registry) Freeze() {
	r.frozen = true
}

// Has reports whether key is registered
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// Get returns the descriptor for key. Keys must come from the registry itself
// (All, or a Has check on user input); an unknown key panics.
func (r *Registry) Get(key string) Descriptor {
	d, ok := r.byKey[key]
	if !ok {
		panic(fmt.Sprintf("fieldtype: unknown key %q", key))
	}
	return d
}

// All returns every descriptor in registration order
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}
