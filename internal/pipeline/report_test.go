package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-insights/internal/model"
)

func TestGenerateInsights_SingleRow(t *testing.T) {
	ds := prepare(load(
		[]string{"Date", "Region Name", "Item", "Qty", "Sales"},
		[]string{"2024-01-15", "North", "Widget", "2", "1000"},
	))

	insights, err := GenerateInsights(ds, InsightOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"• Total revenue generated is ₹1,000.",
		"• Top performing product is 'Widget'.",
		"• Highest revenue came from North region.",
	}, insights)
}

func TestGenerateInsights_Growth(t *testing.T) {
	tests := []struct {
		name     string
		jan, feb string
		want     string
	}{
		{"increase", "1000", "1500", "• Sales increased by 50.00% compared to previous month."},
		{"flat counts as decrease", "1000", "1000", "• Sales decreased by 0.00% compared to previous month."},
		{"decrease", "2000", "1500", "• Sales decreased by 25.00% compared to previous month."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := prepare(load(
				[]string{"order_date", "revenue"},
				[]string{"2024-02-10", tt.feb},
				[]string{"2024-01-10", tt.jan},
			))

			insights, err := GenerateInsights(ds, InsightOptions{})
			require.NoError(t, err)
			require.NotEmpty(t, insights)
			assert.Equal(t, tt.want, insights[len(insights)-1])
		})
	}
}

func TestGenerateInsights_GrowthSkipped(t *testing.T) {
	t.Run("single period", func(t *testing.T) {
		ds := prepare(load([]string{"date", "sales"},
			[]string{"2024-01-01", "5"},
			[]string{"2024-01-20", "6"},
		))
		insights, err := GenerateInsights(ds, InsightOptions{})
		require.NoError(t, err)
		assert.Len(t, insights, 1)
	})

	t.Run("zero previous total", func(t *testing.T) {
		ds := prepare(load([]string{"date", "sales"},
			[]string{"2024-01-01", "0"},
			[]string{"2024-02-01", "6"},
		))
		insights, err := GenerateInsights(ds, InsightOptions{})
		require.NoError(t, err)
		assert.Len(t, insights, 1)
	})

	t.Run("zero in both periods", func(t *testing.T) {
		ds := prepare(load([]string{"date", "sales"},
			[]string{"2024-01-01", "0"},
			[]string{"2024-02-01", "0"},
		))
		insights, err := GenerateInsights(ds, InsightOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"• Total revenue generated is ₹0."}, insights)
	})

	t.Run("dates that fail to parse are ignored", func(t *testing.T) {
		ds := prepare(load([]string{"date", "sales"},
			[]string{"2023-12-01", "100"},
			[]string{"garbage", "999"},
			[]string{"2024-01-01", "150"},
		))
		insights, err := GenerateInsights(ds, InsightOptions{})
		require.NoError(t, err)
		assert.Equal(t, "• Sales increased by 50.00% compared to previous month.", insights[len(insights)-1])
	})
}

func TestGenerateInsights_MissingRevenue(t *testing.T) {
	ds := prepare(load(
		[]string{"Region", "Item", "Qty"},
		[]string{"North", "Widget", "2"},
	))

	insights, err := GenerateInsights(ds, InsightOptions{})

	assert.Nil(t, insights)
	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, ColRevenue, missing.Column)
	assert.Contains(t, missing.Available, ColRegion)
	assert.Contains(t, err.Error(), "Revenue")
}

func TestGenerateInsights_ProfitAndUnknownGroups(t *testing.T) {
	ds := prepare(load(
		[]string{"Product", "Region", "Sales", "Cost"},
		[]string{"Gadget", "East", "500", "100"},
		[]string{"Widget", "West", "500", "200"},
		[]string{"", "", "1,234,000", "0"},
	))

	insights, err := GenerateInsights(ds, InsightOptions{CurrencySymbol: "$"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"• Total revenue generated is $1,235,000.",
		"• Total profit earned is $1,234,700.",
		"• Top performing product is 'Unknown'.",
		"• Highest revenue came from Unknown region.",
	}, insights)
}

func TestGenerateInsights_TiesGoToFirst(t *testing.T) {
	ds := prepare(load(
		[]string{"Product", "Sales"},
		[]string{"Gadget", "300"},
		[]string{"Widget", "100"},
		[]string{"Widget", "200"},
	))

	insights, err := GenerateInsights(ds, InsightOptions{})
	require.NoError(t, err)
	assert.Contains(t, insights, "• Top performing product is 'Gadget'.")
}

func TestGenerateInsights_ZeroRows(t *testing.T) {
	ds := prepare(load([]string{"Product", "Region", "Sales", "Cost", "Date"}))

	insights, err := GenerateInsights(ds, InsightOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"• Total revenue generated is ₹0."}, insights)
}

// Every subset of the optional columns gates exactly its own insights.
func TestGenerateInsights_CompletenessGating(t *testing.T) {
	optional := []string{"Region", "Product", "Cost", "Date"}
	rows := map[string][2]string{
		"Region":  {"North", "South"},
		"Product": {"Widget", "Gadget"},
		"Cost":    {"10", "20"},
		"Date":    {"2024-01-05", "2024-02-05"},
	}

	for mask := range 1 << len(optional) {
		var header []string
		has := map[string]bool{}
		for i, name := range optional {
			if mask&(1<<i) != 0 {
				header = append(header, name)
				has[name] = true
			}
		}
		t.Run(fmt.Sprintf("subset_%02d", mask), func(t *testing.T) {
			h := append([]string{"Sales"}, header...)
			r1 := []string{"100"}
			r2 := []string{"300"}
			for _, name := range header {
				r1 = append(r1, rows[name][0])
				r2 = append(r2, rows[name][1])
			}

			insights, err := GenerateInsights(prepare(load(h, r1, r2)), InsightOptions{})
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(insights[0], "• Total revenue"))
			assert.Equal(t, has["Cost"], containsPrefix(insights, "• Total profit"))
			assert.Equal(t, has["Product"], containsPrefix(insights, "• Top performing product"))
			assert.Equal(t, has["Region"], containsPrefix(insights, "• Highest revenue"))
			assert.Equal(t, has["Date"], containsPrefix(insights, "• Sales increased"))

			want := 1
			for _, name := range optional {
				if has[name] {
					want++
				}
			}
			assert.Len(t, insights, want)
		})
	}
}

func containsPrefix(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func TestFormatReport(t *testing.T) {
	phases := []model.PhaseResult{
		{Name: PhaseNormalize, Status: model.PhaseStatusComplete, Duration: 1},
		{Name: PhaseInsights, Status: model.PhaseStatusFailed, Duration: 2, Error: "boom"},
	}

	report := FormatReport("raw_data.csv", []string{"• Total revenue generated is ₹5."}, phases)

	assert.Contains(t, report, "# Sales Insights: raw_data.csv")
	assert.Contains(t, report, "• Total revenue generated is ₹5.\n")
	assert.Contains(t, report, "- normalize: complete (1ms)")
	assert.Contains(t, report, "  Error: boom")
}

func TestFormatReport_NoInsights(t *testing.T) {
	report := FormatReport("x.csv", nil, nil)
	assert.Contains(t, report, "No insights generated.")
}
