// Package store writes a cleaned sales dataset and its insights into
// database tables.
package store

import (
	"context"
	"time"

	"github.com/sells-group/sales-insights/internal/dataset"
)

// InsightsSuffix is appended to the data table name to name the insights
// table.
const InsightsSuffix = "_insights"

// Store persists one run's output. Every write replaces the previous
// content of its table.
type Store interface {
	Kind() string
	Target() string
	WriteDataset(ctx context.Context, ds *dataset.Dataset) error
	WriteInsights(ctx context.Context, insights []string) error
	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

// cell converts a value for a column of the given kind. Mixed and text
// columns store every cell as text.
func cell(kind dataset.Kind, v dataset.Value) any {
	if v.IsNull() {
		return nil
	}
	switch kind {
	case dataset.KindNumber, dataset.KindInt, dataset.KindDate:
		return v.Any()
	default:
		return v.String()
	}
}

// hasClock reports whether any date in the column carries a time of day.
func hasClock(c *dataset.Column) bool {
	for _, v := range c.Values {
		if t, ok := v.Time(); ok && dataset.FormatDate(t) != t.Format(time.DateOnly) {
			return true
		}
	}
	return false
}
