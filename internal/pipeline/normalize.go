package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/sales-insights/internal/dataset"
	"github.com/sells-group/sales-insights/internal/model"
)

// Canonical column names.
const (
	ColOrderID   = "Order_ID"
	ColOrderDate = "Order_Date"
	ColRegion    = "Region"
	ColProduct   = "Product"
	ColQuantity  = "Quantity"
	ColRevenue   = "Revenue"
	ColCost      = "Cost"

	ColProfit    = "Profit"
	ColYear      = "Year"
	ColMonth     = "Month"
	ColMonthName = "Month_Name"
)

// Alias maps a cleaned raw label onto a canonical column.
type Alias struct {
	From string
	To   string
}

// Aliases is applied in order; a later rename onto an existing column
// replaces that column's content.
var Aliases = []Alias{
	{"order_id", ColOrderID},
	{"order_date", ColOrderDate},
	{"date", ColOrderDate},
	{"region", ColRegion},
	{"region_name", ColRegion},
	{"item", ColProduct},
	{"product", ColProduct},
	{"quantity", ColQuantity},
	{"qty", ColQuantity},
	{"sales", ColRevenue},
	{"sale", ColRevenue},
	{"revenue", ColRevenue},
	{"amount", ColRevenue},
	{"cost", ColCost},
}

// CleanLabel trims, lowercases and replaces each space with an underscore.
func CleanLabel(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// NormalizeColumns rewrites the dataset's labels into the canonical
// schema. Unknown columns keep their cleaned label. It never fails and
// leaves an already normalized dataset unchanged.
func NormalizeColumns(ds *dataset.Dataset) []model.ColumnMapping {
	raw := ds.Names()
	zap.L().Debug("pipeline: raw columns", zap.Strings("columns", raw))

	// owner maps a live column name to the raw column whose content it holds.
	owner := make(map[string]int, len(raw))
	for i, name := range raw {
		owner[CleanLabel(name)] = i
	}
	ds.Relabel(CleanLabel)

	for _, a := range Aliases {
		if !ds.Rename(a.From, a.To) || a.From == a.To {
			continue
		}
		owner[a.To] = owner[a.From]
		delete(owner, a.From)
	}

	zap.L().Debug("pipeline: standardized columns", zap.Strings("columns", ds.Names()))

	mapping := make([]model.ColumnMapping, len(raw))
	for i, name := range raw {
		mapping[i].Raw = name
	}
	for name, i := range owner {
		mapping[i].Canonical = name
	}
	return mapping
}
