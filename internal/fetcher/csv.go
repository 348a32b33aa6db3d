// Package fetcher loads raw sales tables from local files, FTP and HTTP
// sources, ZIP archives and XLSX workbooks.
package fetcher

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// CSVOptions configures the delimited text parser.
type CSVOptions struct {
	Delimiter  rune   // default ','
	Comment    rune   // comment character (0 = none)
	Encoding   string // source charset label, e.g. "windows-1252"; empty = UTF-8
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSV parses every record of r. Records may have differing field
// counts; blank lines are skipped.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([][]string, error) {
	src, err := Decode(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(src)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\ufeff" {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	var records [][]string
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}

		if opts.TrimSpace {
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// Decode converts r from the named charset to UTF-8. An empty name or any
// UTF-8 label returns r unchanged.
func Decode(r io.Reader, encoding string) (io.Reader, error) {
	if encoding == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: unknown encoding %q", encoding)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// ParseDelimiter turns a flag value into a delimiter rune. "\t" and "tab"
// select a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, eris.Errorf("csv: delimiter must be a single character, got %q", s)
	}
	return runes[0], nil
}
