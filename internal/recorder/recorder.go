package recorder

import "time"

// RunRecord holds the outcome of one bulk ingest run.
type RunRecord struct {
	StartedAt    time.Time
	SuccessCount int
	ErrorCount   int
	RowsAppended int
	TotalRows    int
	Duration     time.Duration
	Failures     []FailureRecord
}

// FailureRecord is one symbol that yielded no rows during a run.
type FailureRecord struct {
	Symbol string
	Reason string
}

// Recorder persists historical run data for analysis. Without it a partially
// failed run is indistinguishable from a clean one once the logs rotate.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}
