package export

import (
	"time"

	"github.com/sells-group/sales-insights/internal/dataset"
)

func cleanedSales() *dataset.Dataset {
	ds := dataset.New(2)
	ds.Set("Order_Date", []dataset.Value{
		dataset.Date(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		dataset.Null(),
	})
	ds.Set("Region", []dataset.Value{dataset.String("North"), dataset.String("Unknown")})
	ds.Set("Revenue", []dataset.Value{dataset.Number(1000), dataset.Number(1500.25)})
	ds.Set("Year", []dataset.Value{dataset.Int(2024), dataset.Null()})
	return ds
}

var sampleInsights = []string{
	"• Total revenue generated is ₹2,500.",
	"• Highest revenue came from North region.",
}
