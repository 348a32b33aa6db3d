package main

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/sells-group/sales-insights/internal/config"
	"github.com/sells-group/sales-insights/internal/fetcher"
)

// inputFlags are the source flags shared by run and inspect.
type inputFlags struct {
	path      string
	delimiter string
	encoding  string
	sheet     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "input", "", "input file path or ftp/http(s) URL (default from config: raw_data.csv)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", `field delimiter for text input, e.g. ";" or "\t"`)
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "source text encoding, e.g. windows-1252")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "worksheet name for XLSX input")
}

// apply copies explicitly set flags over the loaded config.
func (f *inputFlags) apply(cmd *cobra.Command, in *config.InputConfig) {
	if cmd.Flags().Changed("input") {
		in.Path = f.path
	}
	if cmd.Flags().Changed("delimiter") {
		in.Delimiter = f.delimiter
	}
	if cmd.Flags().Changed("encoding") {
		in.Encoding = f.encoding
	}
	if cmd.Flags().Changed("sheet") {
		in.Sheet = f.sheet
	}
}

func tableOptions(in config.InputConfig) (fetcher.TableOptions, error) {
	delim, err := fetcher.ParseDelimiter(in.Delimiter)
	if err != nil {
		return fetcher.TableOptions{}, err
	}
	return fetcher.TableOptions{
		CSV: fetcher.CSVOptions{
			Delimiter: delim,
			Encoding:  in.Encoding,
		},
		XLSX: fetcher.XLSXOptions{
			SheetIndex: in.SheetIndex,
			SheetName:  in.Sheet,
		},
		FTP: fetcher.FTPOptions{
			Timeout: time.Duration(in.FTPTimeoutSecs) * time.Second,
		},
		HTTP: fetcher.HTTPOptions{
			Timeout:    time.Duration(in.HTTPTimeoutSecs) * time.Second,
			MaxRetries: in.HTTPRetries,
			Rate:       rate.Limit(in.HTTPRate),
		},
	}, nil
}
