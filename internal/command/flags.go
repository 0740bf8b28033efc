package command

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/n1rna/tablekit/internal/output"
)

// addOutputFlags adds the --format and --quiet flags
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "table", "Output format (table, json, yaml)")
	cmd.Flags().Bool("quiet", false, "Suppress non-error output")
}

// newPrinter builds a printer writing to the command's output
func newPrinter(cmd *cobra.Command) (*output.Printer, error) {
	formatFlag, _ := cmd.Flags().GetString("format")
	quiet, _ := cmd.Flags().GetBool("quiet")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}
	// Messages would corrupt machine readable output
	if format != output.FormatTable {
		quiet = true
	}
	return output.NewPrinterWithWriter(cmd.OutOrStdout(), format, quiet), nil
}

// setChangedFlags passes every flag the user set to set, keyed by form field.
// Flags are applied in name order so errors are deterministic.
func setChangedFlags(cmd *cobra.Command, set func(field, value string) error, flagToField map[string]string) error {
	names := make([]string, 0, len(flagToField))
	for name := range flagToField {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, _ := cmd.Flags().GetString(name)
		if err := set(flagToField[name], value); err != nil {
			return err
		}
	}
	return nil
}
