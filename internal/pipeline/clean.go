package pipeline

import (
	"go.uber.org/zap"

	"github.com/sells-group/sales-insights/internal/dataset"
)

// UnknownLabel fills missing categorical cells.
const UnknownLabel = "Unknown"

var (
	categoricalColumns = []string{ColRegion, ColProduct}
	numericColumns     = []string{ColRevenue, ColCost, ColQuantity}
)

// CleanReport summarizes what CleanData changed.
type CleanReport struct {
	DuplicatesRemoved int            `json:"duplicates_removed" yaml:"duplicates_removed"`
	Filled            map[string]int `json:"filled,omitempty" yaml:"filled,omitempty"`
	Unparseable       map[string]int `json:"unparseable,omitempty" yaml:"unparseable,omitempty"`
	MissingDates      int            `json:"missing_dates" yaml:"missing_dates"`
}

// CleanData removes duplicate rows, fills missing categorical and numeric
// cells and coerces Order_Date. Absent columns are skipped. No columns are
// added.
func CleanData(ds *dataset.Dataset) CleanReport {
	report := CleanReport{
		Filled:      map[string]int{},
		Unparseable: map[string]int{},
	}

	report.DuplicatesRemoved = dropDuplicates(ds)

	for _, name := range categoricalColumns {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		for i, v := range col.Values {
			if v.IsNull() {
				col.Values[i] = dataset.String(UnknownLabel)
				report.Filled[name]++
			}
		}
	}

	for _, name := range numericColumns {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		for i, v := range col.Values {
			if _, ok := v.Float(); ok {
				continue
			}
			if !v.IsNull() {
				if f, ok := parseNumber(v.String()); ok {
					col.Values[i] = dataset.Number(f)
					continue
				}
				report.Unparseable[name]++
			}
			col.Values[i] = dataset.Number(0)
			report.Filled[name]++
		}
		if n := report.Unparseable[name]; n > 0 {
			zap.L().Warn("pipeline: unparseable numeric cells treated as 0",
				zap.String("column", name),
				zap.Int("cells", n),
			)
		}
	}

	if col, ok := ds.Column(ColOrderDate); ok {
		for i, v := range col.Values {
			if v.Kind() == dataset.KindDate {
				continue
			}
			if t, ok := parseDate(v.String()); ok {
				col.Values[i] = dataset.Date(t)
				continue
			}
			col.Values[i] = dataset.Null()
			report.MissingDates++
		}
	}

	zap.L().Info("pipeline: cleaned dataset",
		zap.Int("rows", ds.Len()),
		zap.Int("duplicates_removed", report.DuplicatesRemoved),
		zap.Int("missing_dates", report.MissingDates),
	)
	return report
}

// dropDuplicates keeps the first occurrence of each distinct row.
func dropDuplicates(ds *dataset.Dataset) int {
	seen := make(map[string]struct{}, ds.Len())
	keep := make([]int, 0, ds.Len())
	for i := range ds.Len() {
		k := ds.RowKey(i)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	removed := ds.Len() - len(keep)
	if removed > 0 {
		ds.Keep(keep)
	}
	return removed
}
