// Package output provides formatted terminal output for tablekit entities.
// This centralizes all printing and formatting logic away from command modules.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/fieldtype"
	"github.com/n1rna/tablekit/internal/validation"
)

// Format represents different output formats
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format flag value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", s)
}

// Printer handles formatted output to the terminal
type Printer struct {
	writer io.Writer
	format Format
	quiet  bool
}

// NewPrinter creates a new printer with the specified format
func NewPrinter(format Format, quiet bool) *Printer {
	return NewPrinterWithWriter(os.Stdout, format, quiet)
}

// NewPrinterWithWriter creates a new printer with a custom writer
func NewPrinterWithWriter(writer io.Writer, format Format, quiet bool) *Printer {
	return &Printer{
		writer: writer,
		format: format,
		quiet:  quiet,
	}
}

// Success prints a success message
func (p *Printer) Success(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "✓ %s\n", message)
	}
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.writer, "✗ %s\n", message)
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "⚠ %s\n", message)
	}
}

// Info prints an informational message
func (p *Printer) Info(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "ℹ %s\n", message)
	}
}

// PrintTable prints one table with its fields
func (p *Printer) PrintTable(t *entities.Table, fields []*entities.Field) error {
	switch p.format {
	case FormatTable:
		return p.printTableDetail(t, fields)
	default:
		return p.encode(struct {
			entities.Table `yaml:",inline"`
			Fields         []*entities.Field `json:"fields" yaml:"fields"`
		}{*t, fields})
	}
}

// PrintTableList prints the tables of a database
func (p *Printer) PrintTableList(tables []*entities.Table) error {
	switch p.format {
	case FormatTable:
		return p.printTableListTable(tables)
	default:
		return p.encode(tables)
	}
}

// PrintField prints one field
func (p *Printer) PrintField(f *entities.Field) error {
	switch p.format {
	case FormatTable:
		return p.printFieldDetail(f)
	default:
		return p.encode(f)
	}
}

// PrintFieldList prints the fields of a table
func (p *Printer) PrintFieldList(fields []*entities.Field) error {
	switch p.format {
	case FormatTable:
		return p.printFieldListTable(fields)
	default:
		return p.encode(fields)
	}
}

// typeRow is the serializable view of a field type descriptor
type typeRow struct {
	Key          string `json:"key" yaml:"key"`
	DisplayName  string `json:"display_name" yaml:"display_name"`
	IconClass    string `json:"icon_class" yaml:"icon_class"`
	CanBePrimary bool   `json:"can_be_primary" yaml:"can_be_primary"`
	HasSubForm   bool   `json:"has_sub_form" yaml:"has_sub_form"`
}

// PrintTypes prints the registered field types
func (p *Printer) PrintTypes(descriptors []fieldtype.Descriptor) error {
	rows := make([]typeRow, 0, len(descriptors))
	for _, d := range descriptors {
		rows = append(rows, typeRow{
			Key:          d.Key,
			DisplayName:  d.DisplayName,
			IconClass:    d.IconClass,
			CanBePrimary: d.CanBePrimary,
			HasSubForm:   d.HasSubForm(),
		})
	}

	if p.format != FormatTable {
		return p.encode(rows)
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KEY\tNAME\tPRIMARY\tSETTINGS\n")
	fmt.Fprintf(w, "---\t----\t-------\t--------\n")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Key, r.DisplayName, yesNo(r.CanBePrimary), yesNo(r.HasSubForm))
	}
	return w.Flush()
}

// PrintValidationErrors prints the visible form errors, one per field
func (p *Printer) PrintValidationErrors(errs map[string]validation.ErrorKind) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p.Error(fmt.Sprintf("%s: %s", k, errs[k].Message()))
	}
}

// PrintBackfillReport prints how many api names were generated
func (p *Printer) PrintBackfillReport(r entities.BackfillReport) error {
	if p.format != FormatTable {
		return p.encode(r)
	}
	if r.Tables == 0 && r.Fields == 0 {
		p.Info("All tables and fields already have an api name")
		return nil
	}
	p.Success(fmt.Sprintf("Generated api names for %d table(s) and %d field(s)", r.Tables, r.Fields))
	return nil
}

// Printf prints formatted output directly
func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.writer, format, args...)
}

func (p *Printer) printTableDetail(t *entities.Table, fields []*entities.Field) error {
	fmt.Fprintf(p.writer, "Table: %s\n", t.Name)
	fmt.Fprintf(p.writer, "ID: %s\n", t.ID)
	fmt.Fprintf(p.writer, "API name: %s\n", orDash(t.APIName))
	fmt.Fprintf(p.writer, "Database: %s\n", t.DatabaseID)
	fmt.Fprintf(p.writer, "Created: %s\n", t.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(p.writer, "Updated: %s\n", t.UpdatedAt.Format(time.RFC3339))

	fmt.Fprintf(p.writer, "\nFields:\n")
	if len(fields) == 0 {
		fmt.Fprintf(p.writer, "  No fields defined\n")
		return nil
	}
	return p.writeFieldRows(fields, "  ")
}

func (p *Printer) printTableListTable(tables []*entities.Table) error {
	if len(tables) == 0 {
		fmt.Fprintf(p.writer, "No tables found\n")
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tAPI NAME\tID\tUPDATED\n")
	fmt.Fprintf(w, "----\t--------\t--\t-------\n")

	for _, t := range tables {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			t.Name,
			orDash(t.APIName),
			t.ID,
			t.UpdatedAt.Format("2006-01-02"),
		)
	}

	return w.Flush()
}

func (p *Printer) printFieldDetail(f *entities.Field) error {
	fmt.Fprintf(p.writer, "Field: %s\n", f.Name)
	fmt.Fprintf(p.writer, "ID: %s\n", f.ID)
	fmt.Fprintf(p.writer, "API name: %s\n", orDash(f.APIName))
	fmt.Fprintf(p.writer, "Type: %s\n", f.Type)
	fmt.Fprintf(p.writer, "Primary: %s\n", yesNo(f.Primary))

	if len(f.Options) > 0 {
		keys := make([]string, 0, len(f.Options))
		for k := range f.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(p.writer, "\nSettings:\n")
		for _, k := range keys {
			fmt.Fprintf(p.writer, "  %s: %s\n", k, f.Options[k])
		}
	}
	return nil
}

func (p *Printer) printFieldListTable(fields []*entities.Field) error {
	if len(fields) == 0 {
		fmt.Fprintf(p.writer, "No fields found\n")
		return nil
	}
	return p.writeFieldRows(fields, "")
}

func (p *Printer) writeFieldRows(fields []*entities.Field, indent string) error {
	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sNAME\tAPI NAME\tTYPE\tPRIMARY\n", indent)
	fmt.Fprintf(w, "%s----\t--------\t----\t-------\n", indent)

	for _, f := range fields {
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n",
			indent,
			f.Name,
			orDash(f.APIName),
			f.Type,
			yesNo(f.Primary),
		)
	}

	return w.Flush()
}

// encode prints obj as JSON or YAML
func (p *Printer) encode(obj interface{}) error {
	switch p.format {
	case FormatJSON:
		encoder := json.NewEncoder(p.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(obj)
	case FormatYAML:
		encoder := yaml.NewEncoder(p.writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(obj); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
