// Package datetime provides month arithmetic for labelling schedule rows.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/finance-engine/pkg/constants"
)

const (
	// DateTimeLayout is the month format accepted for start dates and used for
	// row labels.
	DateTimeLayout = constants.DateTimeLayout
)

// ValidateMonth checks that date is a YYYY-MM month.
func ValidateMonth(date string) error {
	if _, err := time.Parse(DateTimeLayout, date); err != nil {
		return fmt.Errorf("expected a YYYY-MM month, got %q", date)
	}
	return nil
}

// MonthLabels returns count consecutive YYYY-MM labels beginning at start; the
// label for 1-based period p is labels[p-1]. An empty start yields nil.
func MonthLabels(start string, count int) ([]string, error) {
	if start == "" || count <= 0 {
		return nil, nil
	}
	t, err := time.Parse(DateTimeLayout, start)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start month %q: %w", start, err)
	}
	labels := make([]string, count)
	for i := range labels {
		labels[i] = t.AddDate(0, i, 0).Format(DateTimeLayout)
	}
	return labels, nil
}
