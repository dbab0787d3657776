package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeTag(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{version: "go1.25.1", want: "go1.25"},
		{version: "go1.24", want: "go1.24"},
		{version: "go1.26rc1", want: "go1.26"},
		{version: "devel go1.26-abcdef Tue Jan 1 00:00:00 2026 +0000", want: "godevel"},
		{version: "", want: "godevel"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, runtimeTag(tt.version))
		})
	}
}

func TestDeriveTags(t *testing.T) {
	tags := DeriveTags(&fakeJob{name: "mypkg"})
	assert.Equal(t, []string{RuntimeTag(), BaseBuilderTag}, tags)

	job := &fakeJob{name: "mypkg", tags: []string{"linux", "go_module"}}
	tags = DeriveTags(job)
	assert.Equal(t, []string{RuntimeTag(), BaseBuilderTag, "linux", "go_module"}, tags)

	tags[2] = "mutated"
	assert.Equal(t, "linux", job.tags[0])
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "proceed", Proceed.String())
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "Decision(7)", Decision(7).String())
}
