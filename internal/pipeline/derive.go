package pipeline

import (
	"github.com/sells-group/sales-insights/internal/dataset"
)

// DeriveFeatures adds Profit and, when Order_Date is present, Year, Month
// and Month_Name. It returns the names of the columns it added.
//
// Profit is Revenue - Cost when Cost is present and null in every row
// otherwise. A null date yields null calendar parts.
func DeriveFeatures(ds *dataset.Dataset) []string {
	n := ds.Len()
	profit := make([]dataset.Value, n)
	if cost, ok := ds.Column(ColCost); ok {
		revenue, hasRevenue := ds.Column(ColRevenue)
		for i := range n {
			var r float64
			if hasRevenue {
				r, _ = revenue.Values[i].Float()
			}
			c, _ := cost.Values[i].Float()
			profit[i] = dataset.Number(r - c)
		}
	}
	ds.Set(ColProfit, profit)
	added := []string{ColProfit}

	dates, ok := ds.Column(ColOrderDate)
	if !ok {
		return added
	}
	year := make([]dataset.Value, n)
	month := make([]dataset.Value, n)
	monthName := make([]dataset.Value, n)
	for i, v := range dates.Values {
		t, ok := v.Time()
		if !ok {
			continue
		}
		year[i] = dataset.Int(t.Year())
		month[i] = dataset.Int(int(t.Month()))
		monthName[i] = dataset.String(t.Month().String())
	}
	ds.Set(ColYear, year)
	ds.Set(ColMonth, month)
	ds.Set(ColMonthName, monthName)
	return append(added, ColYear, ColMonth, ColMonthName)
}
