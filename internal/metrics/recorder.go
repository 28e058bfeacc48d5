package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFatal   ResultLabel = "fatal"
)

// RunOutcomeLabel is the final status of a run.
type RunOutcomeLabel string

const (
	RunSuccess RunOutcomeLabel = "success"
	RunFailed  RunOutcomeLabel = "failed"
)

// EntryState classifies what happened to a discovered entry.
type EntryState string

const (
	EntryDocumented EntryState = "documented"
	EntryExcluded   EntryState = "excluded"
	// EntrySkipped counts entries with neither attributes nor operations.
	EntrySkipped EntryState = "skipped"
)

// Recorder defines observability hooks for run and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome RunOutcomeLabel)
	AddEntries(state EntryState, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)              {}
func (NoopRecorder) AddEntries(EntryState, int)                 {}
