// Package form assembles the table and field editing forms. A form owns the
// raw values the user typed, evaluates them against the identifier rules on
// every call and emits a copy of the values on a successful submit. It never
// persists anything itself.
package form

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/n1rna/tablekit/internal/identifier"
	"github.com/n1rna/tablekit/internal/validation"
)

// Form field names
const (
	FieldName    = "name"
	FieldAPIName = "api_name"
	FieldType    = "type"
)

// SiblingSource returns the current siblings of the entity being edited. It is
// called once per evaluation so changes made elsewhere are picked up.
type SiblingSource func() []identifier.Sibling

// StaticSiblings returns a source that always yields siblings
func StaticSiblings(siblings []identifier.Sibling) SiblingSource {
	return func() []identifier.Sibling { return siblings }
}

// Option configures a form
type Option func(*options)

type options struct {
	clock    clockwork.Clock
	observer func(visible bool)
}

// WithClock drives the api name warning from clock instead of the real clock
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithHazardObserver calls fn whenever the api name warning is shown or hidden
func WithHazardObserver(fn func(visible bool)) Option {
	return func(o *options) { o.observer = fn }
}

// snapshot hands every rule of one evaluation pass the same sibling list.
// Outside a pass each read goes to the source.
type snapshot struct {
	source   SiblingSource
	depth    int
	loaded   bool
	siblings []identifier.Sibling
}

func newSnapshot(source SiblingSource) *snapshot {
	return &snapshot{source: source}
}

func (s *snapshot) get() []identifier.Sibling {
	if s.depth == 0 {
		return s.source()
	}
	if !s.loaded {
		s.siblings = s.source()
		s.loaded = true
	}
	return s.siblings
}

// pass starts an evaluation pass and returns the func that ends it. Passes
// nest; siblings are dropped when the outermost one ends.
func (s *snapshot) pass() func() {
	s.depth++
	return func() {
		s.depth--
		if s.depth == 0 {
			s.siblings, s.loaded = nil, false
		}
	}
}

// base holds what table and field forms share
type base struct {
	engine   *validation.Engine
	values   validation.Values
	defaults validation.Values
	hazard   *Hazard
	siblings *snapshot
}

func newBase(schema *validation.Schema, defaults validation.Values, siblings *snapshot, opts []Option) base {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	h := NewHazard(o.clock)
	if o.observer != nil {
		h.OnChange(o.observer)
	}

	return base{
		engine:   validation.New(schema),
		values:   defaults.Clone(),
		defaults: defaults.Clone(),
		hazard:   h,
		siblings: siblings,
	}
}

func (b *base) set(field, value string) error {
	if !b.engine.Schema().Has(field) {
		return fmt.Errorf("unknown form field %q", field)
	}
	b.values[field] = value
	return nil
}

// Value returns the raw value of field
func (b *base) Value(field string) string {
	return b.values[field]
}

// Focus marks field as focused. Focusing the api name shows the warning.
func (b *base) Focus(field string) {
	if field == FieldAPIName && b.engine.Schema().Has(FieldAPIName) {
		b.hazard.Focus()
	}
}

// Blur touches field. Leaving the api name starts the warning cooldown.
func (b *base) Blur(field string) {
	b.engine.Touch(field)
	if field == FieldAPIName {
		b.hazard.Blur()
	}
}

// Touched reports whether field has been touched
func (b *base) Touched(field string) bool {
	return b.engine.Touched(field)
}

// States returns the display state of every form field
func (b *base) States() []validation.FieldState {
	defer b.siblings.pass()()
	return b.engine.States(b.values)
}

// HazardVisible reports whether the api name warning is shown
func (b *base) HazardVisible() bool {
	return b.hazard.Visible()
}

// Hazard exposes the api name warning timer
func (b *base) Hazard() *Hazard {
	return b.hazard
}

// Close releases the warning timer. The form must not be used afterwards.
func (b *base) Close() {
	b.hazard.Close()
}

func (b *base) restore() {
	b.values = b.defaults.Clone()
	b.engine.Reset()
	b.hazard.Reset()
}

func lengthRule() validation.Rule {
	return validation.NewRule(validation.NameTooLong, func(v string) bool {
		return identifier.IsWithinLength(v, identifier.MaxLength)
	})
}

func uniqueRule(kind validation.ErrorKind, siblings *snapshot, attr identifier.Attr, selfID string) validation.Rule {
	return validation.NewRule(kind, func(v string) bool {
		return identifier.IsUniqueAmong(v, siblings.get(), attr, selfID)
	})
}

// nameRules are the display name rules. reserved may be nil.
func nameRules(siblings *snapshot, selfID string, reserved identifier.ReservedSet) []validation.Rule {
	rules := []validation.Rule{
		validation.Required(validation.RequiredFieldMissing),
		lengthRule(),
	}
	if len(reserved) > 0 {
		rules = append(rules, validation.NewRule(validation.ReservedNameClash, func(v string) bool {
			return identifier.IsNotReserved(v, reserved)
		}))
	}
	return append(rules, uniqueRule(validation.DuplicateName, siblings, identifier.ByName, selfID))
}

// apiNameRules are the api name rules. An optional api name may be left empty.
func apiNameRules(siblings *snapshot, selfID string, required bool) []validation.Rule {
	var rules []validation.Rule
	if required {
		rules = append(rules, validation.Required(validation.RequiredFieldMissing))
	}
	return append(rules,
		lengthRule(),
		validation.NewRule(validation.InvalidAPINameFormat, identifier.IsValidAPIName),
		uniqueRule(validation.DuplicateAPIName, siblings, identifier.ByAPIName, selfID),
	)
}
