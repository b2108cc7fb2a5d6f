package calculator

import (
	"time"

	"github.com/google/uuid"
)

// Units a Metric or Column value is expressed in.
const (
	UnitCurrency = "currency"
	UnitPercent  = "percent"
	UnitCount    = "count"
	UnitText     = "text"
)

// Metric is one headline figure of a result.
type Metric struct {
	Label string  `json:"label"`
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
	// Text is set instead of Value for UnitText metrics.
	Text string `json:"text,omitempty"`
}

// Column describes one numeric column of a Table.
type Column struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// TableRow is a labelled row of values, one per column.
type TableRow struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Table is the period-by-period view of a result, used for printing.
type Table struct {
	Title       string     `json:"title"`
	LabelHeader string     `json:"labelHeader"`
	Columns     []Column   `json:"columns"`
	Rows        []TableRow `json:"rows"`
}

// Result is the outcome of one calculation. Exactly one of Data and Error is set.
type Result struct {
	ID      uuid.UUID     `json:"calculationId"`
	Name    string        `json:"name,omitempty"`
	Type    string        `json:"type"`
	Data    interface{}   `json:"result,omitempty"`
	Summary []Metric      `json:"summary,omitempty"`
	Table   *Table        `json:"-"`
	Error   string        `json:"error,omitempty"`
	Field   string        `json:"field,omitempty"`
	Elapsed time.Duration `json:"-"`
}

// Failed reports whether the calculation returned an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

func currency(label string, v float64) Metric {
	return Metric{Label: label, Unit: UnitCurrency, Value: v}
}

func percent(label string, v float64) Metric {
	return Metric{Label: label, Unit: UnitPercent, Value: v}
}

func count(label string, v int) Metric {
	return Metric{Label: label, Unit: UnitCount, Value: float64(v)}
}

func text(label, v string) Metric {
	return Metric{Label: label, Unit: UnitText, Text: v}
}
