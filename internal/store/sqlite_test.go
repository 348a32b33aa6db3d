package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-insights/internal/dataset"
)

func newTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.db")
	s, err := NewSQLite(path, "cleaned_sales")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	return s, path
}

func TestSQLiteStore_WriteDataset(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.WriteDataset(ctx, salesDataset()))

	rows, err := s.db.QueryContext(ctx, `SELECT "Product", "Revenue", "Year", "Order_Date" FROM "cleaned_sales" ORDER BY rowid`)
	require.NoError(t, err)
	defer rows.Close() //nolint:errcheck

	type row struct {
		product sql.NullString
		revenue float64
		year    int64
		date    sql.NullString
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.product, &r.revenue, &r.year, &r.date))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)

	assert.Equal(t, "Widget", got[0].product.String)
	assert.InDelta(t, 1000.0, got[0].revenue, 1e-9)
	assert.Equal(t, int64(2024), got[0].year)
	assert.Equal(t, "2024-01-15", got[0].date.String)

	assert.False(t, got[1].product.Valid)
	assert.InDelta(t, 2500.5, got[1].revenue, 1e-9)
	assert.False(t, got[1].date.Valid)
}

func TestSQLiteStore_ReplacesPreviousTable(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.WriteDataset(ctx, salesDataset()))

	smaller := dataset.New(1)
	smaller.Set("Region", []dataset.Value{dataset.String("North")})
	require.NoError(t, s.WriteDataset(ctx, smaller))

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "cleaned_sales"`).Scan(&n))
	assert.Equal(t, 1, n)

	var region string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT "Region" FROM "cleaned_sales"`).Scan(&region))
	assert.Equal(t, "North", region)
}

func TestSQLiteStore_MixedColumnStoredAsText(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	ds := dataset.New(2)
	ds.Set("Notes", []dataset.Value{dataset.Number(1.5), dataset.String("late")})
	require.NoError(t, s.WriteDataset(ctx, ds))

	var typ string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT typeof("Notes") FROM "cleaned_sales" ORDER BY rowid LIMIT 1`).Scan(&typ))
	assert.Equal(t, "text", typ)
}

func TestSQLiteStore_WriteInsights(t *testing.T) {
	s, path := newTestSQLite(t)
	ctx := context.Background()

	insights := []string{"Total Revenue: ₹3,500", "Top Region: North"}
	require.NoError(t, s.WriteInsights(ctx, insights))
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path, "cleaned_sales")
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck

	rows, err := reopened.db.QueryContext(ctx, `SELECT position, insight FROM "cleaned_sales_insights" ORDER BY position`)
	require.NoError(t, err)
	defer rows.Close() //nolint:errcheck

	var got []string
	pos := 0
	for rows.Next() {
		var p int
		var line string
		require.NoError(t, rows.Scan(&p, &line))
		pos++
		assert.Equal(t, pos, p)
		got = append(got, line)
	}
	assert.Equal(t, insights, got)
}

func TestSQLiteStore_QuotesIdentifiers(t *testing.T) {
	s, _ := newTestSQLite(t)

	ds := dataset.New(1)
	ds.Set(`odd "name"`, []dataset.Value{dataset.Date(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))})
	require.NoError(t, s.WriteDataset(context.Background(), ds))

	var v string
	require.NoError(t, s.db.QueryRow(`SELECT "odd ""name""" FROM "cleaned_sales"`).Scan(&v))
	assert.Equal(t, "2024-03-01 08:00:00", v)
}

func TestSQLiteStore_Errors(t *testing.T) {
	_, err := NewSQLite(filepath.Join(t.TempDir(), "x.db"), "")
	require.Error(t, err)

	s, _ := newTestSQLite(t)
	err = s.WriteDataset(context.Background(), dataset.New(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns")

	assert.Equal(t, "sqlite", s.Kind())
	assert.Contains(t, s.Target(), "#cleaned_sales")
}

func TestSQLiteStore_CaseCollidingColumns(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	// A raw "Year" header survives normalization as "year" next to the
	// derived Year column.
	ds := dataset.New(1)
	ds.Set("year", []dataset.Value{dataset.String("FY24")})
	ds.Set("Year", []dataset.Value{dataset.Int(2024)})
	require.NoError(t, s.WriteDataset(ctx, ds))

	var raw string
	var derived int64
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT "year", "Year.1" FROM "cleaned_sales"`).Scan(&raw, &derived))
	assert.Equal(t, "FY24", raw)
	assert.Equal(t, int64(2024), derived)
}

func TestFoldUnique(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"distinct", []string{"Region", "Revenue"}, []string{"Region", "Revenue"}},
		{"case collision", []string{"year", "Profit", "Year"}, []string{"year", "Profit", "Year.1"}},
		{"suffix already taken", []string{"month", "Month.1", "Month"}, []string{"month", "Month.1", "Month.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, foldUnique(tt.in))
		})
	}
}
