package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/pkg/format"
	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tax bracket tables available to calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				tables *config.TaxTables
				err    error
			)
			if file != "" {
				tables, err = config.LoadTaxTables(file)
			} else {
				tables, err = config.DefaultTaxTables()
			}
			if err != nil {
				return err
			}
			return printTables(cmd.OutOrStdout(), tables)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML or TOML tax table file (default: built-in tables)")
	return cmd
}

func printTables(w io.Writer, tables *config.TaxTables) error {
	for _, name := range tables.Names() {
		table, err := tables.Lookup(name)
		if err != nil {
			return err
		}
		top := 0.0
		if n := len(table.Brackets); n > 0 {
			top = table.Brackets[n-1].RatePercent
		}
		if _, err := fmt.Fprintf(w, "%-32s %-24s %4d  deduction %12s  %2d brackets, top rate %s\n",
			table.Name, table.FilingStatus, table.Year,
			format.Currency(table.StandardDeduction), len(table.Brackets), format.Percent(top)); err != nil {
			return err
		}
	}
	return nil
}
