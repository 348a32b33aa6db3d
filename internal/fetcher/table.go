package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sales-insights/internal/dataset"
)

// TableOptions configures LoadTable.
type TableOptions struct {
	CSV  CSVOptions
	XLSX XLSXOptions
	FTP  FTPOptions
	HTTP HTTPOptions
}

// LoadTable reads the raw sales table at source. Source may be a local
// path or an ftp, http or https URL; remote files are downloaded to a
// temporary directory first. A .zip holding a single file is extracted
// and that file is read. Files ending in .xlsx or .xlsm are read as
// workbooks, anything else as delimited text. The first row is the
// header.
func LoadTable(ctx context.Context, source string, opts TableOptions) (*dataset.Dataset, error) {
	tmp, err := os.MkdirTemp("", "sales-insights-*")
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create temp dir")
	}
	defer os.RemoveAll(tmp) //nolint:errcheck

	local := source
	if f, remote := ForSource(source, opts); remote {
		local = filepath.Join(tmp, remoteName(source))
		n, err := f.DownloadToFile(ctx, source, local)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: download %s", source)
		}
		zap.L().Info("fetcher: downloaded source", zap.String("source", source), zap.Int64("bytes", n))
	}

	if hasExt(local, ".zip") {
		local, err = ExtractZIPSingle(local, filepath.Join(tmp, "unzipped"))
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: extract %s", source)
		}
	}

	records, err := readRecords(ctx, local, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", source)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("fetcher: %s has no header row", source)
	}

	ds := dataset.FromRecords(records[0], records[1:])
	zap.L().Info("fetcher: loaded table",
		zap.String("source", source),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", ds.Width()),
	)
	return ds, nil
}

func readRecords(ctx context.Context, local string, opts TableOptions) ([][]string, error) {
	if hasExt(local, ".xlsx") || hasExt(local, ".xlsm") {
		return ReadXLSX(local, opts.XLSX)
	}

	f, err := os.Open(local)
	if err != nil {
		return nil, eris.Wrap(err, "open file")
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(ctx, f, opts.CSV)
}

// remoteName keeps the extension of the remote file so the format can be
// detected after download.
func remoteName(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return "download"
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "download"
	}
	return base
}

func hasExt(p, ext string) bool {
	return strings.EqualFold(filepath.Ext(p), ext)
}
