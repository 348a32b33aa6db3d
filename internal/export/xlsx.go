package export

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/sales-insights/internal/dataset"
)

// Sheet names used in the workbook.
const (
	DataSheet     = "Cleaned Data"
	InsightsSheet = "Insights"
)

// XLSXSink writes a workbook with the cleaned data on one sheet and the
// insights on another. Numbers are stored as numeric cells, dates as text.
type XLSXSink struct {
	Path string
}

func (s *XLSXSink) Kind() string   { return "xlsx" }
func (s *XLSXSink) Target() string { return s.Path }

// WriteDataset starts a fresh workbook at Path.
func (s *XLSXSink) WriteDataset(_ context.Context, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return eris.Wrap(err, "xlsx: rename sheet")
	}

	for i, c := range ds.Columns() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return eris.Wrap(err, "xlsx: header cell")
		}
		if err := f.SetCellValue(DataSheet, cell, c.Name); err != nil {
			return eris.Wrapf(err, "xlsx: set %s", cell)
		}
		for r, v := range c.Values {
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return eris.Wrap(err, "xlsx: data cell")
			}
			if err := f.SetCellValue(DataSheet, cell, cellValue(v)); err != nil {
				return eris.Wrapf(err, "xlsx: set %s", cell)
			}
		}
	}

	return s.save(f, true)
}

// WriteInsights adds or replaces the insights sheet, creating the workbook
// if it does not exist yet.
func (s *XLSXSink) WriteInsights(_ context.Context, insights []string) error {
	f, fresh, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	idx, err := f.GetSheetIndex(InsightsSheet)
	if err != nil {
		return eris.Wrap(err, "xlsx: find insights sheet")
	}
	switch {
	case idx >= 0:
		rows, err := f.GetRows(InsightsSheet)
		if err != nil {
			return eris.Wrap(err, "xlsx: read insights sheet")
		}
		for r := len(rows); r >= 1; r-- {
			if err := f.RemoveRow(InsightsSheet, r); err != nil {
				return eris.Wrap(err, "xlsx: clear insights sheet")
			}
		}
	case fresh:
		if err := f.SetSheetName("Sheet1", InsightsSheet); err != nil {
			return eris.Wrap(err, "xlsx: rename sheet")
		}
	default:
		if _, err := f.NewSheet(InsightsSheet); err != nil {
			return eris.Wrap(err, "xlsx: add insights sheet")
		}
	}

	for i, line := range insights {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return eris.Wrap(err, "xlsx: insight cell")
		}
		if err := f.SetCellValue(InsightsSheet, cell, line); err != nil {
			return eris.Wrapf(err, "xlsx: set %s", cell)
		}
	}

	return s.save(f, fresh)
}

func (s *XLSXSink) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(s.Path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, eris.Wrapf(err, "xlsx: open %s", s.Path)
}

func (s *XLSXSink) save(f *excelize.File, fresh bool) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "xlsx: create dir %s", dir)
		}
	}
	var err error
	if fresh {
		err = f.SaveAs(s.Path)
	} else {
		err = f.Save()
	}
	return eris.Wrapf(err, "xlsx: save %s", s.Path)
}

func cellValue(v dataset.Value) any {
	if v.Kind() == dataset.KindDate {
		return v.String()
	}
	return v.Any()
}
