package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultError   ResultLabel = "error"
	ResultPanic   ResultLabel = "panic"
)

// Recorder defines observability hooks for lifecycle stages and build
// outcomes. Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncResolution(outcome string) // outcome: found|none|no_files
	IncInlined(position string)
	AddDeleted(n int)
	ObserveInlinedBytes(n int)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|warnings|errors|failed
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncResolution(string)                       {}
func (NoopRecorder) IncInlined(string)                          {}
func (NoopRecorder) AddDeleted(int)                             {}
func (NoopRecorder) ObserveInlinedBytes(int)                    {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
