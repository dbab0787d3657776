package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeEnv(t *testing.T) {
	tests := []struct {
		name      string
		base      []string
		overrides []string
		want      []string
	}{
		{"override keeps position", []string{"PATH=/bin", "HOME=/root"}, []string{"PATH=/workspace/bin:/bin"}, []string{"PATH=/workspace/bin:/bin", "HOME=/root"}},
		{"new keys appended", []string{"HOME=/root"}, []string{"GOBIN=/workspace/bin", "GOFLAGS=-mod=mod"}, []string{"HOME=/root", "GOBIN=/workspace/bin", "GOFLAGS=-mod=mod"}},
		{"no base", nil, []string{"GOPATH=/workspace/gopath"}, []string{"GOPATH=/workspace/gopath"}},
		{"no overrides", []string{"HOME=/root"}, nil, []string{"HOME=/root"}},
		{"both empty", nil, nil, []string{}},
		{"value containing equals", []string{"GOFLAGS=-tags=integration"}, nil, []string{"GOFLAGS=-tags=integration"}},
		{"entries without equals dropped", []string{"BROKEN", "HOME=/root"}, []string{"ALSO_BROKEN", "CGO_ENABLED=0"}, []string{"HOME=/root", "CGO_ENABLED=0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeEnv(tt.base, tt.overrides))
		})
	}
}

func TestNextExecID(t *testing.T) {
	a, b := nextExecID(), nextExecID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
