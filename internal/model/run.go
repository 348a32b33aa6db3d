package model

import "time"

// RunStatus represents the outcome of a pipeline run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// PhaseStatus represents the current state of a pipeline phase.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult holds the outcome of a pipeline phase.
type PhaseResult struct {
	Name     string         `json:"name" yaml:"name"`
	Status   PhaseStatus    `json:"status" yaml:"status"`
	Duration int64          `json:"duration_ms" yaml:"duration_ms"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ColumnMapping pairs a raw input label with the column it became. An
// empty Canonical means the column was folded into another one.
type ColumnMapping struct {
	Raw       string `json:"raw" yaml:"raw"`
	Canonical string `json:"canonical" yaml:"canonical"`
}

// ExportResult describes one output written by the exporter.
type ExportResult struct {
	Type    string `json:"type" yaml:"type"`
	Target  string `json:"target" yaml:"target"`
	Records int    `json:"records" yaml:"records"`
	Success bool   `json:"success" yaml:"success"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunSummary is the persisted description of a finished run.
type RunSummary struct {
	RunID             string          `json:"run_id" yaml:"run_id"`
	Source            string          `json:"source" yaml:"source"`
	Status            RunStatus       `json:"status" yaml:"status"`
	StartedAt         time.Time       `json:"started_at" yaml:"started_at"`
	FinishedAt        time.Time       `json:"finished_at" yaml:"finished_at"`
	RawRows           int             `json:"raw_rows" yaml:"raw_rows"`
	CleanedRows       int             `json:"cleaned_rows" yaml:"cleaned_rows"`
	DuplicatesRemoved int             `json:"duplicates_removed" yaml:"duplicates_removed"`
	Columns           []string        `json:"columns" yaml:"columns"`
	Mapping           []ColumnMapping `json:"mapping" yaml:"mapping"`
	Insights          []string        `json:"insights" yaml:"insights"`
	Phases            []PhaseResult   `json:"phases" yaml:"phases"`
	Outputs           []ExportResult  `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Error             string          `json:"error,omitempty" yaml:"error,omitempty"`
}
