// Package export writes the cleaned dataset and the insight lines to their
// configured destinations.
package export

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sales-insights/internal/dataset"
	"github.com/sells-group/sales-insights/internal/model"
)

// Sink is a named output destination.
type Sink interface {
	Kind() string
	Target() string
}

// DatasetSink receives the cleaned dataset.
type DatasetSink interface {
	Sink
	WriteDataset(ctx context.Context, ds *dataset.Dataset) error
}

// InsightSink receives the insight lines in order.
type InsightSink interface {
	Sink
	WriteInsights(ctx context.Context, insights []string) error
}

// Export runs each sink in order. A sink that implements both interfaces
// gets the dataset first. The first failure stops the export; results up
// to and including the failed sink are returned with it.
func Export(ctx context.Context, ds *dataset.Dataset, insights []string, sinks []Sink) ([]model.ExportResult, error) {
	results := make([]model.ExportResult, 0, len(sinks))
	for _, s := range sinks {
		res := model.ExportResult{Type: s.Kind(), Target: s.Target()}

		err := write(ctx, s, ds, insights, &res)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			zap.L().Error("export: sink failed",
				zap.String("type", res.Type),
				zap.String("target", res.Target),
				zap.Error(err),
			)
			return results, err
		}

		res.Success = true
		results = append(results, res)
		zap.L().Info("export: sink written",
			zap.String("type", res.Type),
			zap.String("target", res.Target),
			zap.Int("records", res.Records),
		)
	}
	return results, nil
}

func write(ctx context.Context, s Sink, ds *dataset.Dataset, insights []string, res *model.ExportResult) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "export: context cancelled")
	}

	wrote := false
	if d, ok := s.(DatasetSink); ok {
		if err := d.WriteDataset(ctx, ds); err != nil {
			return eris.Wrapf(err, "export: write dataset to %s", s.Target())
		}
		res.Records = ds.Len()
		wrote = true
	}
	if in, ok := s.(InsightSink); ok {
		if err := in.WriteInsights(ctx, insights); err != nil {
			return eris.Wrapf(err, "export: write insights to %s", s.Target())
		}
		if !wrote {
			res.Records = len(insights)
		}
		wrote = true
	}
	if !wrote {
		return eris.Errorf("export: sink %s accepts neither a dataset nor insights", s.Kind())
	}
	return nil
}
