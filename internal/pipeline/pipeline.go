package pipeline

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/sales-insights/internal/dataset"
	"github.com/sells-group/sales-insights/internal/model"
)

// Phase names, in execution order.
const (
	PhaseNormalize = "normalize"
	PhaseClean     = "clean"
	PhaseDerive    = "derive"
	PhaseInsights  = "insights"
)

// Result is the outcome of one pipeline run.
type Result struct {
	RunID    string
	RawRows  int
	Mapping  []model.ColumnMapping
	Clean    CleanReport
	Derived  []string
	Insights []string
	Phases   []model.PhaseResult
}

// Runner executes the stages over a single dataset it owns for the
// duration of Run.
type Runner struct {
	opts InsightOptions
}

// NewRunner creates a Runner.
func NewRunner(opts InsightOptions) *Runner {
	return &Runner{opts: opts}
}

// Run normalizes, cleans, derives and summarizes ds in place. A missing
// Revenue column is returned as *MissingColumnError without wrapping; the
// partial Result still carries the completed phases.
func (r *Runner) Run(ds *dataset.Dataset) (*Result, error) {
	result := &Result{
		RunID:   uuid.New().String(),
		RawRows: ds.Len(),
	}
	log := zap.L().With(zap.String("run_id", result.RunID))
	log.Info("pipeline: starting run",
		zap.Int("rows", ds.Len()),
		zap.Int("columns", ds.Width()),
	)

	trackPhase := func(name string, fn func() (*model.PhaseResult, error)) error {
		start := time.Now()
		phaseResult, fnErr := fn()
		duration := time.Since(start).Milliseconds()

		if phaseResult == nil {
			phaseResult = &model.PhaseResult{}
		}
		phaseResult.Name = name
		phaseResult.Duration = duration

		if fnErr != nil {
			phaseResult.Status = model.PhaseStatusFailed
			phaseResult.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		} else {
			phaseResult.Status = model.PhaseStatusComplete
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
			)
		}
		result.Phases = append(result.Phases, *phaseResult)
		return fnErr
	}

	_ = trackPhase(PhaseNormalize, func() (*model.PhaseResult, error) {
		result.Mapping = NormalizeColumns(ds)
		return &model.PhaseResult{Metadata: map[string]any{"columns": ds.Names()}}, nil
	})

	_ = trackPhase(PhaseClean, func() (*model.PhaseResult, error) {
		result.Clean = CleanData(ds)
		return &model.PhaseResult{Metadata: map[string]any{
			"rows":               ds.Len(),
			"duplicates_removed": result.Clean.DuplicatesRemoved,
		}}, nil
	})

	_ = trackPhase(PhaseDerive, func() (*model.PhaseResult, error) {
		result.Derived = DeriveFeatures(ds)
		return &model.PhaseResult{Metadata: map[string]any{"added": result.Derived}}, nil
	})

	if err := trackPhase(PhaseInsights, func() (*model.PhaseResult, error) {
		insights, err := GenerateInsights(ds, r.opts)
		if err != nil {
			return nil, err
		}
		result.Insights = insights
		return &model.PhaseResult{Metadata: map[string]any{"insights": len(insights)}}, nil
	}); err != nil {
		return result, err
	}

	log.Info("pipeline: run complete",
		zap.Int("rows", ds.Len()),
		zap.Int("insights", len(result.Insights)),
	)
	return result, nil
}
