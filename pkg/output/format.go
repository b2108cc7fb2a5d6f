// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-engine/internal/calculator"
	"github.com/iwvelando/finance-engine/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
// Tables longer than maxRows are truncated; 0 prints every row.
func PrettyFormat(w io.Writer, results []calculator.Result, maxRows int) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyResult(w, p, result, maxRows); err != nil {
			return err
		}
	}
	return nil
}

func prettyResult(w io.Writer, p *message.Printer, result calculator.Result, maxRows int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Results for %s (%s) ---\n", result.Name, result.Type)
	fmt.Fprintf(&b, "id: %s\n", result.ID)

	if result.Failed() {
		if result.Field != "" {
			fmt.Fprintf(&b, "error: %s: %s\n", result.Field, result.Error)
		} else {
			fmt.Fprintf(&b, "error: %s\n", result.Error)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	width := 0
	for _, m := range result.Summary {
		if len(m.Label) > width {
			width = len(m.Label)
		}
	}
	for _, m := range result.Summary {
		fmt.Fprintf(&b, "%-*s : %s\n", width, m.Label, metricValue(m))
	}

	if t := result.Table; t != nil && len(t.Rows) > 0 {
		b.WriteString("\n")
		writeTable(&b, p, t, maxRows)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func metricValue(m calculator.Metric) string {
	switch m.Unit {
	case calculator.UnitCurrency:
		return format.Currency(m.Value)
	case calculator.UnitPercent:
		return format.Percent(m.Value)
	case calculator.UnitCount:
		return strconv.FormatFloat(m.Value, 'f', 0, 64)
	}
	return m.Text
}

func writeTable(b *strings.Builder, p *message.Printer, t *calculator.Table, maxRows int) {
	cells := make([][]string, 0, len(t.Rows)+1)
	header := []string{t.LabelHeader}
	for _, c := range t.Columns {
		header = append(header, c.Name)
	}

	rows := t.Rows
	omitted := 0
	if maxRows > 0 && len(rows) > maxRows {
		omitted = len(rows) - maxRows
		rows = rows[:maxRows]
	}
	for _, row := range rows {
		line := []string{row.Label}
		for j, v := range row.Values {
			unit := calculator.UnitCurrency
			if j < len(t.Columns) {
				unit = t.Columns[j].Unit
			}
			line = append(line, tableCell(p, unit, v))
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(header))
	for j, h := range header {
		widths[j] = len(h)
	}
	for _, line := range cells {
		for j, cell := range line {
			if j < len(widths) && len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	fmt.Fprintf(b, "%s\n", t.Title)
	writeRow(b, header, widths)
	separator := make([]string, len(header))
	for j := range separator {
		separator[j] = strings.Repeat("_", widths[j])
	}
	writeRow(b, separator, widths)
	for _, line := range cells {
		writeRow(b, line, widths)
	}
	if omitted > 0 {
		fmt.Fprintf(b, "... %d more rows\n", omitted)
	}
}

func tableCell(p *message.Printer, unit string, v float64) string {
	switch unit {
	case calculator.UnitPercent:
		return p.Sprintf("%.3f%%", v)
	case calculator.UnitCount:
		return p.Sprintf("%d", int64(v))
	}
	return p.Sprintf("$%.2f", v)
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for j, cell := range cells {
		if j > 0 {
			b.WriteString(" | ")
		}
		if j == 0 {
			fmt.Fprintf(b, "%-*s", widths[j], cell)
		} else {
			fmt.Fprintf(b, "%*s", widths[j], cell)
		}
	}
	b.WriteString("\n")
}

// CsvHeader is the header row written by CsvFormat.
var CsvHeader = []string{"name", "type", "calculation_id", "section", "row", "column", "value"}

// CsvFormat writes results in comma-separated value format, one value per
// line, so results of different shapes share a single header. Summary metrics
// use section "summary", table cells "table" and failures "error".
func CsvFormat(w io.Writer, results []calculator.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CsvHeader); err != nil {
		return err
	}
	for _, result := range results {
		id := result.ID.String()
		if result.Failed() {
			if err := cw.Write([]string{result.Name, result.Type, id, "error", "", result.Field, result.Error}); err != nil {
				return err
			}
			continue
		}
		for _, m := range result.Summary {
			value := m.Text
			if m.Unit != calculator.UnitText {
				value = csvNumber(m.Unit, m.Value)
			}
			if err := cw.Write([]string{result.Name, result.Type, id, "summary", "", m.Label, value}); err != nil {
				return err
			}
		}
		if result.Table == nil {
			continue
		}
		for _, row := range result.Table.Rows {
			for j, v := range row.Values {
				column, unit := strconv.Itoa(j+1), calculator.UnitCurrency
				if j < len(result.Table.Columns) {
					column, unit = result.Table.Columns[j].Name, result.Table.Columns[j].Unit
				}
				if err := cw.Write([]string{result.Name, result.Type, id, "table", row.Label, column, csvNumber(unit, v)}); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvNumber(unit string, v float64) string {
	switch unit {
	case calculator.UnitCount:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case calculator.UnitPercent:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
