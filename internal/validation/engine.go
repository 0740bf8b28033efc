// Package validation evaluates declarative per-field rule lists and tracks
// which fields the user has touched.
//
// The engine never owns the values it validates. Callers pass the current
// values on every call, which keeps evaluation pure: the same values and the
// same external inputs (siblings, reserved words) always produce the same
// result. Touched state only decides which failures are shown, never whether
// the values are valid.
package validation

import (
	"maps"
	"slices"
	"strings"
)

// Check reports whether value passes a rule.
type Check func(value string) bool

// Rule pairs a check with the kind reported when it fails.
type Rule struct {
	Kind     ErrorKind
	Check    Check
	required bool
}

// NewRule returns a rule reporting kind when check fails.
func NewRule(kind ErrorKind, check Check) Rule {
	return Rule{Kind: kind, Check: check}
}

// Required returns the presence rule for a field. When a value is empty after
// trimming, only required rules are evaluated for that field.
func Required(kind ErrorKind) Rule {
	return Rule{
		Kind:     kind,
		Check:    func(v string) bool { return strings.TrimSpace(v) != "" },
		required: true,
	}
}

// Values maps field names to raw user input.
type Values map[string]string

// Clone returns a shallow copy; a nil receiver yields an empty map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	maps.Copy(out, v)
	return out
}

// Schema is an ordered set of fields and their ordered rules. Rule order is
// display priority.
type Schema struct {
	fields []string
	rules  map[string][]Rule
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{rules: make(map[string][]Rule)}
}

// Field declares name with rules appended after any rules already declared
// for it.
func (s *Schema) Field(name string, rules ...Rule) *Schema {
	if _, ok := s.rules[name]; !ok {
		s.fields = append(s.fields, name)
	}
	s.rules[name] = append(s.rules[name], rules...)
	return s
}

// Fields returns the declared field names in declaration order.
func (s *Schema) Fields() []string {
	return slices.Clone(s.fields)
}

// Has reports whether name is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.rules[name]
	return ok
}

// Result maps every declared field to its failing kinds in priority order.
// An empty list means the field is valid.
type Result map[string][]ErrorKind

// Valid reports whether no field has a failure.
func (r Result) Valid() bool {
	for _, kinds := range r {
		if len(kinds) > 0 {
			return false
		}
	}
	return true
}

// First returns the highest priority failure for field.
func (r Result) First(field string) (ErrorKind, bool) {
	kinds := r[field]
	if len(kinds) == 0 {
		return "", false
	}
	return kinds[0], true
}

// Equal reports whether both results hold the same failures.
func (r Result) Equal(other Result) bool {
	return maps.EqualFunc(r, other, func(a, b []ErrorKind) bool {
		return slices.Equal(a, b)
	})
}

// FieldState is the display state of one declared field.
type FieldState struct {
	Field   string
	Touched bool
	Value   string
	Errors  []ErrorKind
}

// Engine evaluates a schema and tracks touched fields.
type Engine struct {
	schema  *Schema
	touched map[string]bool
}

// New returns an engine for schema with no touched fields.
func New(schema *Schema) *Engine {
	return &Engine{
		schema:  schema,
		touched: make(map[string]bool),
	}
}

// Schema returns the schema the engine evaluates.
func (e *Engine) Schema() *Schema {
	return e.schema
}

// Touch marks field as touched. Undeclared fields are ignored.
func (e *Engine) Touch(field string) {
	if e.schema.Has(field) {
		e.touched[field] = true
	}
}

// TouchAll marks every declared field as touched.
func (e *Engine) TouchAll() {
	for _, f := range e.schema.fields {
		e.touched[f] = true
	}
}

// Touched reports whether field has been touched.
func (e *Engine) Touched(field string) bool {
	return e.touched[field]
}

// Reset clears all touched flags.
func (e *Engine) Reset() {
	clear(e.touched)
}

// Evaluate runs every rule of every declared field against values.
func (e *Engine) Evaluate(values Values) Result {
	res := make(Result, len(e.schema.fields))
	for _, f := range e.schema.fields {
		res[f] = evaluateField(e.schema.rules[f], values[f])
	}
	return res
}

func evaluateField(rules []Rule, value string) []ErrorKind {
	failed := make([]ErrorKind, 0)
	empty := strings.TrimSpace(value) == ""
	for _, r := range rules {
		if empty && !r.required {
			continue
		}
		if !r.Check(value) {
			failed = append(failed, r.Kind)
		}
	}
	return failed
}

// IsValid reports whether values pass every rule, regardless of touched state.
func (e *Engine) IsValid(values Values) bool {
	return e.Evaluate(values).Valid()
}

// Visible returns the highest priority failure of each touched field.
func (e *Engine) Visible(values Values) map[string]ErrorKind {
	res := e.Evaluate(values)
	out := make(map[string]ErrorKind)
	for _, f := range e.schema.fields {
		if !e.touched[f] {
			continue
		}
		if k, ok := res.First(f); ok {
			out[f] = k
		}
	}
	return out
}

// States returns the display state of every declared field in order.
func (e *Engine) States(values Values) []FieldState {
	res := e.Evaluate(values)
	states := make([]FieldState, 0, len(e.schema.fields))
	for _, f := range e.schema.fields {
		states = append(states, FieldState{
			Field:   f,
			Touched: e.touched[f],
			Value:   values[f],
			Errors:  res[f],
		})
	}
	return states
}
