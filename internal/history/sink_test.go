package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/cruciblehq/barn/internal/build"
	"github.com/cruciblehq/barn/internal/orchestrator"
)

var _ orchestrator.Sink = Sink{}

func TestSinkRecordsResult(t *testing.T) {
	s := newTestStore(t)
	sink := Sink{Store: s}
	started := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	err := sink.Record(t.Context(), orchestrator.Outcome{
		Descriptor: orchestrator.Descriptor{Name: "mypkg", Tags: []string{"go1.25", "base_builder"}},
		Result: &build.Result{
			ClientInfo: build.ClientInfo{Success: false, BuildID: "b1", Started: started, Duration: time.Second},
			Steps: []build.StepResult{
				{Name: "build", Success: true},
				{Name: "test", Success: false},
			},
		},
	})
	require.NoError(t, err)

	entries, err := s.List(t.Context(), "mypkg", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "failure", e.Outcome)
	assert.Equal(t, "b1", e.BuildID)
	assert.Equal(t, 2, e.Steps)
	assert.Equal(t, 1, e.FailedSteps)
	assert.Equal(t, "test", gjson.GetBytes(e.Result, "results.1.name").String())
}

func TestSinkRecordsSkip(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sink := Sink{Store: s, Now: func() time.Time { return now }}

	err := sink.Record(t.Context(), orchestrator.Outcome{
		Descriptor: orchestrator.Descriptor{Name: "mypkg"},
		Skipped:    true,
	})
	require.NoError(t, err)

	entries, err := s.List(t.Context(), "mypkg", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "skipped", entries[0].Outcome)
	assert.True(t, now.Equal(entries[0].Started))
	assert.Empty(t, entries[0].BuildID)
}
