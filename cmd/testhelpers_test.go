package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-insights/internal/config"
)

const scenarioCSV = "Date,Region Name,Item,Qty,Sales,Cost\n" +
	"2024-01-15,North,Widget,2,1000,600\n" +
	"2024-02-15,South,Gadget,NA,\"1,500\",700\n" +
	"2024-02-15,South,Gadget,NA,\"1,500\",700\n"

// testConfig writes input to a temp dir and returns a config whose
// outputs all land in that dir.
func testConfig(t *testing.T, input string) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "raw_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	c := &config.Config{}
	c.Input.Path = path
	c.Input.Delimiter = ","
	c.Input.HTTPRetries = 1
	c.Input.HTTPRate = 5
	c.Output.Cleaned = filepath.Join(dir, "cleaned_sales_data.csv")
	c.Output.Insights = filepath.Join(dir, "insights_report.txt")
	c.Sinks.SQLite.Table = "cleaned_sales"
	c.Report.CurrencySymbol = "₹"
	c.Log.Format = "json"
	return c, dir
}
