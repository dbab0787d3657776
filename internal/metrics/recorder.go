package metrics

import "time"

// Outcome enumerates invocation outcomes for counters.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeSkipped Outcome = "skipped"
)

// Recorder defines observability hooks for builds and their steps.
type Recorder interface {
	ObserveStepDuration(job, step string, d time.Duration)
	IncStepResult(job, step string, success bool)
	ObserveBuildDuration(job string, d time.Duration)
	IncBuildOutcome(job string, outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, string, time.Duration) {}
func (NoopRecorder) IncStepResult(string, string, bool)                {}
func (NoopRecorder) ObserveBuildDuration(string, time.Duration)        {}
func (NoopRecorder) IncBuildOutcome(string, Outcome)                   {}
