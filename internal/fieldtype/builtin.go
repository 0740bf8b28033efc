package fieldtype

import (
	"strings"

	"github.com/n1rna/tablekit/internal/validation"
)

// Built-in type keys
const (
	Text         = "text"
	LongText     = "long_text"
	Number       = "number"
	Boolean      = "boolean"
	Date         = "date"
	URL          = "url"
	Email        = "email"
	SingleSelect = "single_select"
	LinkToTable  = "link_to_table"
)

// Sub-form setting keys
const (
	OptionDateFormat    = "date_format"
	OptionSelectOptions = "select_options"
	OptionLinkTable     = "link_row_table_id"
)

// DateFormats are the formats accepted by the date type
var DateFormats = []Choice{
	{Value: "EU", Label: "European (D/M/Y)"},
	{Value: "US", Label: "US (M/D/Y)"},
	{Value: "ISO", Label: "ISO (Y-M-D)"},
}

const defaultDateFormat = "EU"

// NewDefaultRegistry returns a frozen registry holding the built-in types
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	r.Freeze()
	return r
}

// RegisterBuiltins adds the built-in types to r
func RegisterBuiltins(r *Registry) {
	r.Register(Descriptor{Key: Text, DisplayName: "Single line text", IconClass: "iconoir-text", CanBePrimary: true})
	r.Register(Descriptor{Key: LongText, DisplayName: "Long text", IconClass: "iconoir-align-left", CanBePrimary: true})
	r.Register(Descriptor{Key: Number, DisplayName: "Number", IconClass: "iconoir-numbered-list-left", CanBePrimary: true})
	r.Register(Descriptor{Key: Boolean, DisplayName: "Boolean", IconClass: "iconoir-check", CanBePrimary: true})
	r.Register(Descriptor{Key: Date, DisplayName: "Date", IconClass: "iconoir-calendar", CanBePrimary: true, SubForm: dateSubForm})
	r.Register(Descriptor{Key: URL, DisplayName: "URL", IconClass: "iconoir-link", CanBePrimary: true})
	r.Register(Descriptor{Key: Email, DisplayName: "Email", IconClass: "iconoir-at-sign", CanBePrimary: true})
	r.Register(Descriptor{Key: SingleSelect, DisplayName: "Single select", IconClass: "iconoir-list", CanBePrimary: true, SubForm: singleSelectSubForm})
	r.Register(Descriptor{Key: LinkToTable, DisplayName: "Link to table", IconClass: "iconoir-table", CanBePrimary: false, SubForm: linkToTableSubForm})
}

func dateSubForm(ctx Context) SubForm {
	initial := map[string]string{OptionDateFormat: defaultDateFormat}
	if v, ok := ctx.Defaults[OptionDateFormat]; ok {
		initial[OptionDateFormat] = v
	}

	schema := validation.NewSchema().
		Field(OptionDateFormat,
			validation.Required(validation.RequiredFieldMissing),
			validation.NewRule(validation.InvalidDateFormat, oneOf(DateFormats)),
		)

	inputs := []Input{{Key: OptionDateFormat, Label: "Date format", Choices: DateFormats}}
	return newRuleForm(inputs, schema, initial)
}

func singleSelectSubForm(ctx Context) SubForm {
	schema := validation.NewSchema().
		Field(OptionSelectOptions,
			validation.NewRule(validation.DuplicateSelectOption, distinctOptions),
		)

	inputs := []Input{{Key: OptionSelectOptions, Label: "Options (comma separated)"}}
	return newRuleForm(inputs, schema, ctx.Defaults)
}

func linkToTableSubForm(ctx Context) SubForm {
	choices := make([]Choice, 0, len(ctx.Tables))
	for _, t := range ctx.Tables {
		choices = append(choices, Choice{Value: t.ID, Label: t.Name})
	}

	schema := validation.NewSchema().
		Field(OptionLinkTable,
			validation.Required(validation.LinkedTableMissing),
			validation.NewRule(validation.LinkedTableUnknown, oneOf(choices)),
		)

	inputs := []Input{{Key: OptionLinkTable, Label: "Link to table", Choices: choices}}
	return newRuleForm(inputs, schema, ctx.Defaults)
}

func oneOf(choices []Choice) validation.Check {
	return func(v string) bool {
		v = strings.TrimSpace(v)
		for _, c := range choices {
			if c.Value == v {
				return true
			}
		}
		return false
	}
}

// SplitOptions splits a comma separated option list, dropping blanks
func SplitOptions(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func distinctOptions(v string) bool {
	seen := make(map[string]struct{})
	for _, o := range SplitOptions(v) {
		if _, dup := seen[o]; dup {
			return false
		}
		seen[o] = struct{}{}
	}
	return true
}
