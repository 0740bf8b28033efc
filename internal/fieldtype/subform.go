package fieldtype

import (
	"fmt"
	"maps"

	"github.com/n1rna/tablekit/internal/validation"
)

// Choice is one allowed value of an input
type Choice struct {
	Value string
	Label string
}

// Input describes one setting of a sub-form
type Input struct {
	Key     string
	Label   string
	Choices []Choice // Empty for free text
}

// SubForm holds the type-specific settings of a field form. A sub-form owns
// its values and touched state and reports its own validity to the parent.
type SubForm interface {
	Inputs() []Input
	Set(key, value string) error
	Value(key string) string
	Touch(key string)
	TouchAll()
	Values() map[string]string // Copy of the current settings
	Valid() bool
	Errors() map[string]validation.ErrorKind // Visible errors of touched inputs
	Reset()                                  // Restore mount-time values, untouch all
}

// ruleForm is a SubForm backed by a validation engine
type ruleForm struct {
	inputs  []Input
	engine  *validation.Engine
	initial validation.Values
	values  validation.Values
}

// newRuleForm builds a sub-form over inputs. initial holds the mount-time
// values; inputs missing from it start empty.
func newRuleForm(inputs []Input, schema *validation.Schema, initial map[string]string) *ruleForm {
	start := make(validation.Values, len(inputs))
	for _, in := range inputs {
		start[in.Key] = initial[in.Key]
	}
	return &ruleForm{
		inputs:  inputs,
		engine:  validation.New(schema),
		initial: start,
		values:  start.Clone(),
	}
}

func (f *ruleForm) Inputs() []Input {
	out := make([]Input, len(f.inputs))
	copy(out, f.inputs)
	return out
}

func (f *ruleForm) Set(key, value string) error {
	if _, ok := f.values[key]; !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	f.values[key] = value
	return nil
}

func (f *ruleForm) Value(key string) string {
	return f.values[key]
}

func (f *ruleForm) Touch(key string) {
	f.engine.Touch(key)
}

func (f *ruleForm) TouchAll() {
	f.engine.TouchAll()
}

func (f *ruleForm) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	maps.Copy(out, f.values)
	return out
}

func (f *ruleForm) Valid() bool {
	return f.engine.IsValid(f.values)
}

func (f *ruleForm) Errors() map[string]validation.ErrorKind {
	return f.engine.Visible(f.values)
}

func (f *ruleForm) Reset() {
	f.values = f.initial.Clone()
	f.engine.Reset()
}
