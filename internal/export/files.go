package export

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sales-insights/internal/dataset"
)

// CSVSink writes the dataset as a comma-separated file with a header row.
type CSVSink struct {
	Path string
}

func (s *CSVSink) Kind() string   { return "csv" }
func (s *CSVSink) Target() string { return s.Path }

// WriteDataset writes through gota. A dataset without columns produces an
// empty file.
func (s *CSVSink) WriteDataset(_ context.Context, ds *dataset.Dataset) error {
	f, err := create(s.Path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	if ds.Width() == 0 {
		return nil
	}

	df := ds.Frame()
	if df.Err != nil {
		return eris.Wrap(df.Err, "csv: build frame")
	}
	if err := df.WriteCSV(f); err != nil {
		return eris.Wrapf(err, "csv: write %s", s.Path)
	}
	return eris.Wrapf(f.Close(), "csv: close %s", s.Path)
}

// TextSink writes one insight per line.
type TextSink struct {
	Path string
}

func (s *TextSink) Kind() string   { return "text" }
func (s *TextSink) Target() string { return s.Path }

func (s *TextSink) WriteInsights(_ context.Context, insights []string) error {
	f, err := create(s.Path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	w := bufio.NewWriter(f)
	for _, line := range insights {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return eris.Wrapf(err, "text: write %s", s.Path)
		}
	}
	if err := w.Flush(); err != nil {
		return eris.Wrapf(err, "text: flush %s", s.Path)
	}
	return eris.Wrapf(f.Close(), "text: close %s", s.Path)
}

func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "export: create dir %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: create %s", path)
	}
	return f, nil
}
