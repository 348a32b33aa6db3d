package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const salesCSV = "Date,Region Name,Item,Qty,Sales\n2024-01-15,North,Widget,2,1000\n2024-02-15,,Gadget,NA,1500\n"

func TestLoadTable_LocalCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw_data.csv")
	require.NoError(t, writeTestFile(path, salesCSV))

	ds, err := LoadTable(context.Background(), path, TableOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"Date", "Region Name", "Item", "Qty", "Sales"}, ds.Names())
	region, _ := ds.Column("Region Name")
	assert.True(t, region.Values[1].IsNull())
	qty, _ := ds.Column("Qty")
	assert.True(t, qty.Values[1].IsNull())
}

func TestLoadTable_Delimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw_data.txt")
	require.NoError(t, writeTestFile(path, "Item\tSales\nWidget\t5\n"))

	ds, err := LoadTable(context.Background(), path, TableOptions{CSV: CSVOptions{Delimiter: '\t'}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Item", "Sales"}, ds.Names())
}

func TestLoadTable_XLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Orders": {{"Item", "Sales"}, {"Widget", "5"}, {"Gadget", "7"}},
	})

	ds, err := LoadTable(context.Background(), path, TableOptions{XLSX: XLSXOptions{SheetName: "Orders"}})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, [][]string{{"Item", "Sales"}, {"Widget", "5"}, {"Gadget", "7"}}, ds.Records())
}

func TestLoadTable_ZIP(t *testing.T) {
	path := createTestZIP(t, map[string]string{"orders.csv": salesCSV})

	ds, err := LoadTable(context.Background(), path, TableOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestLoadTable_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exports/raw_data.csv", r.URL.Path)
		w.Write([]byte(salesCSV)) //nolint:errcheck
	}))
	defer srv.Close()

	ds, err := LoadTable(context.Background(), srv.URL+"/exports/raw_data.csv", TableOptions{
		HTTP: HTTPOptions{Rate: rate.Inf, BackoffBase: time.Millisecond},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestLoadTable_FTP(t *testing.T) {
	srv := newFTPStub(t, map[string]string{"/raw_data.csv": salesCSV})

	ds, err := LoadTable(context.Background(), srv.url("/raw_data.csv"), TableOptions{
		FTP: FTPOptions{Timeout: 5 * time.Second},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Width())
}

func TestLoadTable_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, writeTestFile(empty, ""))

	_, err := LoadTable(context.Background(), empty, TableOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")

	_, err = LoadTable(context.Background(), filepath.Join(dir, "missing.csv"), TableOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}

func TestRemoteName(t *testing.T) {
	assert.Equal(t, "sales.xlsx", remoteName("https://example.com/q1/sales.xlsx?sig=abc"))
	assert.Equal(t, "download", remoteName("https://example.com/"))
	assert.Equal(t, "download", remoteName("https://example.com"))
}

func TestForSource(t *testing.T) {
	_, ok := ForSource("raw_data.csv", TableOptions{})
	assert.False(t, ok)

	f, ok := ForSource("ftp://host/file.csv", TableOptions{})
	assert.True(t, ok)
	assert.IsType(t, &FTPFetcher{}, f)

	f, ok = ForSource("https://host/file.csv", TableOptions{})
	assert.True(t, ok)
	assert.IsType(t, &HTTPFetcher{}, f)
}
