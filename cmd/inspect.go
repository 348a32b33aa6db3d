package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sales-insights/internal/config"
	"github.com/sells-group/sales-insights/internal/fetcher"
	"github.com/sells-group/sales-insights/internal/model"
	"github.com/sells-group/sales-insights/internal/pipeline"
)

var inspectInput inputFlags

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show how the input columns map onto the standard schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		inspectInput.apply(cmd, &cfg.Input)
		return inspect(cmd.Context(), cfg.Input, os.Stdout)
	},
}

func inspect(ctx context.Context, in config.InputConfig, out io.Writer) error {
	opts, err := tableOptions(in)
	if err != nil {
		return err
	}
	ds, err := fetcher.LoadTable(ctx, in.Path, opts)
	if err != nil {
		return eris.Wrap(err, "inspect: load input")
	}

	mapping := pipeline.NormalizeColumns(ds)
	formatMapping(out, mapping)
	_, _ = fmt.Fprintf(out, "\n%d rows, %d columns\n", ds.Len(), ds.Width())
	return nil
}

func formatMapping(out io.Writer, mapping []model.ColumnMapping) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RAW\tCOLUMN")
	_, _ = fmt.Fprintln(w, "---\t------")

	for _, m := range mapping {
		canonical := m.Canonical
		if canonical == "" {
			canonical = "(merged)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", m.Raw, canonical)
	}
	_ = w.Flush()
}

func init() {
	inspectInput.register(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}
