package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-insights/internal/dataset"
)

// load builds a dataset from a header and rows of raw text.
func load(header []string, rows ...[]string) *dataset.Dataset {
	return dataset.FromRecords(header, rows)
}

// column returns the formatted cells of a column, failing the test when it
// is absent.
func column(t *testing.T, ds *dataset.Dataset, name string) []string {
	t.Helper()
	col, ok := ds.Column(name)
	require.True(t, ok, "column %s missing from %v", name, ds.Names())
	out := make([]string, len(col.Values))
	for i, v := range col.Values {
		out[i] = v.String()
	}
	return out
}

// prepare runs every stage before insight generation.
func prepare(ds *dataset.Dataset) *dataset.Dataset {
	NormalizeColumns(ds)
	CleanData(ds)
	DeriveFeatures(ds)
	return ds
}
