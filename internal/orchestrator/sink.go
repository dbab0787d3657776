package orchestrator

import (
	"context"

	"github.com/cruciblehq/barn/internal/build"
	"github.com/cruciblehq/barn/internal/metrics"
)

// What a post-run sink receives after an invocation.
type Outcome struct {
	Descriptor Descriptor
	Skipped    bool          // The staleness check found nothing to do.
	Result     *build.Result // Nil when Skipped.
}

// Returns the outcome label used for history and metrics.
func (o Outcome) Label() metrics.Outcome {
	switch {
	case o.Skipped:
		return metrics.OutcomeSkipped
	case o.Result != nil && o.Result.ClientInfo.Success:
		return metrics.OutcomeSuccess
	default:
		return metrics.OutcomeFailure
	}
}

// Receives the outcome of every invocation, after any report or print.
type Sink interface {
	Name() string
	Record(ctx context.Context, outcome Outcome) error
}

// Counts invocation outcomes and optionally writes the metrics to a textfile.
type MetricsSink struct {
	Recorder *metrics.PrometheusRecorder
	Path     string // Textfile destination. Empty skips writing.
}

func (MetricsSink) Name() string {
	return "metrics"
}

func (s MetricsSink) Record(_ context.Context, outcome Outcome) error {
	s.Recorder.IncBuildOutcome(outcome.Descriptor.Name, outcome.Label())
	if s.Path == "" {
		return nil
	}
	return s.Recorder.WriteTextfile(s.Path)
}
