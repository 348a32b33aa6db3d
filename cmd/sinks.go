package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sales-insights/internal/config"
	"github.com/sells-group/sales-insights/internal/export"
	"github.com/sells-group/sales-insights/internal/store"
)

// buildSinks assembles the configured outputs in write order. The
// returned cleanup closes any database connections that were opened.
func buildSinks(ctx context.Context, c *config.Config) ([]export.Sink, func(), error) {
	sinks := []export.Sink{
		&export.CSVSink{Path: c.Output.Cleaned},
		&export.TextSink{Path: c.Output.Insights},
	}
	if c.Output.XLSX != "" {
		sinks = append(sinks, &export.XLSXSink{Path: c.Output.XLSX})
	}

	var stores []store.Store
	cleanup := func() {
		for _, s := range stores {
			if err := s.Close(); err != nil {
				zap.L().Warn("sinks: close store", zap.String("type", s.Kind()), zap.Error(err))
			}
		}
	}

	if c.Sinks.SQLite.DSN != "" {
		s, err := store.NewSQLite(c.Sinks.SQLite.DSN, c.Sinks.SQLite.Table)
		if err != nil {
			cleanup()
			return nil, func() {}, eris.Wrap(err, "sinks: open sqlite")
		}
		stores = append(stores, s)
		sinks = append(sinks, s)
	}
	if c.Sinks.Postgres.DatabaseURL != "" {
		s, err := store.NewPostgres(ctx, c.Sinks.Postgres.DatabaseURL, c.Sinks.Postgres.Schema, c.Sinks.Postgres.Table)
		if err != nil {
			cleanup()
			return nil, func() {}, eris.Wrap(err, "sinks: connect postgres")
		}
		stores = append(stores, s)
		sinks = append(sinks, s)
	}

	return sinks, cleanup, nil
}
