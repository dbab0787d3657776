package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cruciblehq/barn/internal/orchestrator"
)

// Records every invocation outcome in a [Store].
type Sink struct {
	Store *Store
	Now   func() time.Time // Clock for skipped entries. Nil uses time.Now.
}

func (Sink) Name() string {
	return "history"
}

func (s Sink) Record(ctx context.Context, outcome orchestrator.Outcome) error {
	e, err := s.entry(outcome)
	if err != nil {
		return err
	}
	_, err = s.Store.Record(ctx, e)
	return err
}

// Converts an outcome into a history entry.
func (s Sink) entry(outcome orchestrator.Outcome) (Entry, error) {
	e := Entry{
		Job:     outcome.Descriptor.Name,
		Outcome: string(outcome.Label()),
		Tags:    outcome.Descriptor.Tags,
	}

	if outcome.Result == nil {
		e.Started = s.now()
		return e, nil
	}

	info := outcome.Result.ClientInfo
	e.BuildID = info.BuildID
	e.Started = info.Started
	e.Duration = info.Duration
	e.Steps = len(outcome.Result.Steps)
	for _, step := range outcome.Result.Steps {
		if !step.Success {
			e.FailedSteps++
		}
	}

	data, err := json.Marshal(outcome.Result)
	if err != nil {
		return Entry{}, err
	}
	e.Result = data

	return e, nil
}

func (s Sink) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
