package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sales-insights/internal/config"
	"github.com/sells-group/sales-insights/internal/export"
	"github.com/sells-group/sales-insights/internal/fetcher"
	"github.com/sells-group/sales-insights/internal/model"
	"github.com/sells-group/sales-insights/internal/pipeline"
)

var (
	runInput    inputFlags
	runCleaned  string
	runInsights string
	runXLSX     string
	runSummary  string
	runSQLite   string
	runPostgres string
	runPrint    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean a sales table and write the insights report",
	RunE: func(cmd *cobra.Command, args []string) error {
		runInput.apply(cmd, &cfg.Input)
		applyOutputFlags(cmd, cfg)

		if err := cfg.Validate(); err != nil {
			return err
		}

		var out io.Writer
		if runPrint {
			out = os.Stdout
		}
		return executeRun(cmd.Context(), cfg, out)
	},
}

func applyOutputFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("cleaned") {
		c.Output.Cleaned = runCleaned
	}
	if flags.Changed("insights") {
		c.Output.Insights = runInsights
	}
	if flags.Changed("xlsx") {
		c.Output.XLSX = runXLSX
	}
	if flags.Changed("summary") {
		c.Output.Summary = runSummary
	}
	if flags.Changed("sqlite") {
		c.Sinks.SQLite.DSN = runSQLite
	}
	if flags.Changed("postgres") {
		c.Sinks.Postgres.DatabaseURL = runPostgres
	}
}

// executeRun loads the input, runs the pipeline and exports the results.
// When report is non-nil the formatted report is written to it. A missing
// Revenue column aborts before any output is written.
func executeRun(ctx context.Context, c *config.Config, report io.Writer) error {
	started := time.Now().UTC()

	opts, err := tableOptions(c.Input)
	if err != nil {
		return err
	}

	ds, err := fetcher.LoadTable(ctx, c.Input.Path, opts)
	if err != nil {
		return eris.Wrap(err, "run: load input")
	}

	runner := pipeline.NewRunner(pipeline.InsightOptions{CurrencySymbol: c.Report.CurrencySymbol})
	result, err := runner.Run(ds)
	if err != nil {
		return err
	}

	sinks, cleanup, err := buildSinks(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup()

	outputs, exportErr := export.Export(ctx, ds, result.Insights, sinks)

	summary := model.RunSummary{
		RunID:             result.RunID,
		Source:            c.Input.Path,
		Status:            model.RunStatusComplete,
		StartedAt:         started,
		FinishedAt:        time.Now().UTC(),
		RawRows:           result.RawRows,
		CleanedRows:       ds.Len(),
		DuplicatesRemoved: result.Clean.DuplicatesRemoved,
		Columns:           ds.Names(),
		Mapping:           result.Mapping,
		Insights:          result.Insights,
		Phases:            result.Phases,
		Outputs:           outputs,
	}
	if exportErr != nil {
		summary.Status = model.RunStatusFailed
		summary.Error = exportErr.Error()
	}
	if c.Output.Summary != "" {
		if err := export.WriteSummary(c.Output.Summary, summary); err != nil {
			if exportErr == nil {
				return err
			}
			zap.L().Warn("run: write summary", zap.Error(err))
		}
	}
	if exportErr != nil {
		return exportErr
	}

	zap.L().Info("pipeline executed successfully",
		zap.String("run_id", result.RunID),
		zap.String("source", c.Input.Path),
		zap.Int("raw_rows", result.RawRows),
		zap.Int("cleaned_rows", ds.Len()),
		zap.Int("insights", len(result.Insights)),
		zap.Int("outputs", len(outputs)),
	)

	if report != nil {
		if _, err := fmt.Fprint(report, pipeline.FormatReport(c.Input.Path, result.Insights, result.Phases)); err != nil {
			return eris.Wrap(err, "run: print report")
		}
	}
	return nil
}

func init() {
	runInput.register(runCmd)
	runCmd.Flags().StringVar(&runCleaned, "cleaned", "", "cleaned dataset CSV path (default from config: cleaned_sales_data.csv)")
	runCmd.Flags().StringVar(&runInsights, "insights", "", "insights report path (default from config: insights_report.txt)")
	runCmd.Flags().StringVar(&runXLSX, "xlsx", "", "also write an XLSX workbook with data and insights sheets")
	runCmd.Flags().StringVar(&runSummary, "summary", "", "write a YAML run summary to this path")
	runCmd.Flags().StringVar(&runSQLite, "sqlite", "", "also write tables to this SQLite database file")
	runCmd.Flags().StringVar(&runPostgres, "postgres", "", "also write tables to this PostgreSQL database URL")
	runCmd.Flags().BoolVar(&runPrint, "print", false, "print the insights report to stdout")
	rootCmd.AddCommand(runCmd)
}
