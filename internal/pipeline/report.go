package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/sales-insights/internal/dataset"
	"github.com/sells-group/sales-insights/internal/model"
)

// DefaultCurrencySymbol prefixes revenue and profit totals.
const DefaultCurrencySymbol = "₹"

// InsightOptions tunes insight wording.
type InsightOptions struct {
	CurrencySymbol string
}

// GenerateInsights computes the KPI sentences for a cleaned and derived
// dataset. Revenue is required; every other insight is emitted only when
// its columns are present.
func GenerateInsights(ds *dataset.Dataset, opts InsightOptions) ([]string, error) {
	symbol := opts.CurrencySymbol
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}

	revenue, ok := ds.Column(ColRevenue)
	if !ok {
		return nil, &MissingColumnError{Column: ColRevenue, Available: ds.Names()}
	}

	total, _ := sum(revenue.Values)
	insights := []string{
		fmt.Sprintf("• Total revenue generated is %s%s.", symbol, formatAmount(total)),
	}
	if ds.Len() == 0 {
		return insights, nil
	}

	if profit, ok := ds.Column(ColProfit); ok {
		if totalProfit, defined := sum(profit.Values); defined > 0 {
			insights = append(insights,
				fmt.Sprintf("• Total profit earned is %s%s.", symbol, formatAmount(totalProfit)))
		}
	}

	if top, ok := topGroup(ds, ColProduct, revenue); ok {
		insights = append(insights, fmt.Sprintf("• Top performing product is '%s'.", top))
	}

	if top, ok := topGroup(ds, ColRegion, revenue); ok {
		insights = append(insights, fmt.Sprintf("• Highest revenue came from %s region.", top))
	}

	if pct, ok := monthOverMonth(ds, revenue); ok {
		if pct > 0 {
			insights = append(insights,
				fmt.Sprintf("• Sales increased by %s%% compared to previous month.", formatPercent(pct)))
		} else {
			insights = append(insights,
				fmt.Sprintf("• Sales decreased by %s%% compared to previous month.", formatPercent(pct)))
		}
	}

	return insights, nil
}

// sum adds the numeric cells and reports how many were defined.
func sum(values []dataset.Value) (float64, int) {
	var total float64
	n := 0
	for _, v := range values {
		if f, ok := v.Float(); ok {
			total += f
			n++
		}
	}
	return total, n
}

type group struct {
	key   string
	total float64
}

// groupRevenue sums revenue per distinct key in first-encounter order.
// Rows with a null key are left out.
func groupRevenue(keys *dataset.Column, revenue *dataset.Column) []group {
	index := make(map[string]int)
	var groups []group
	for i, k := range keys.Values {
		if k.IsNull() {
			continue
		}
		key := k.String()
		j, ok := index[key]
		if !ok {
			j = len(groups)
			index[key] = j
			groups = append(groups, group{key: key})
		}
		if f, ok := revenue.Values[i].Float(); ok {
			groups[j].total += f
		}
	}
	return groups
}

// topGroup returns the key with the largest revenue. Ties go to the key
// seen first.
func topGroup(ds *dataset.Dataset, column string, revenue *dataset.Column) (string, bool) {
	keys, ok := ds.Column(column)
	if !ok {
		return "", false
	}
	groups := groupRevenue(keys, revenue)
	if len(groups) == 0 {
		return "", false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.total > best.total {
			best = g
		}
	}
	return best.key, true
}

type period struct {
	year, month int
	total       float64
}

// monthOverMonth compares the latest (Year, Month) revenue total with the
// one before it. It reports false with fewer than two periods or a zero
// previous total.
func monthOverMonth(ds *dataset.Dataset, revenue *dataset.Column) (float64, bool) {
	years, ok := ds.Column(ColYear)
	if !ok {
		return 0, false
	}
	months, ok := ds.Column(ColMonth)
	if !ok {
		return 0, false
	}

	index := make(map[[2]int]int)
	var periods []period
	for i := range ds.Len() {
		y, okY := years.Values[i].IntValue()
		m, okM := months.Values[i].IntValue()
		if !okY || !okM {
			continue
		}
		k := [2]int{y, m}
		j, seen := index[k]
		if !seen {
			j = len(periods)
			index[k] = j
			periods = append(periods, period{year: y, month: m})
		}
		if f, ok := revenue.Values[i].Float(); ok {
			periods[j].total += f
		}
	}
	if len(periods) < 2 {
		return 0, false
	}

	sort.Slice(periods, func(a, b int) bool {
		if periods[a].year != periods[b].year {
			return periods[a].year < periods[b].year
		}
		return periods[a].month < periods[b].month
	})

	prev := periods[len(periods)-2].total
	latest := periods[len(periods)-1].total
	if prev == 0 {
		return 0, false
	}
	return (latest - prev) / prev * 100, true
}

// FormatReport renders a console summary of a finished run: the insights
// followed by per-phase timings.
func FormatReport(source string, insights []string, phases []model.PhaseResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sales Insights: %s\n\n", source)

	b.WriteString("## Insights\n")
	if len(insights) == 0 {
		b.WriteString("No insights generated.\n")
	}
	for _, line := range insights {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\n")

	b.WriteString("## Phases\n")
	for _, p := range phases {
		fmt.Fprintf(&b, "- %s: %s (%dms)\n", p.Name, p.Status, p.Duration)
		if p.Error != "" {
			fmt.Fprintf(&b, "  Error: %s\n", p.Error)
		}
	}

	return b.String()
}
