package execution

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContext struct {
	destroyed int
}

func (c *fakeContext) Root() string { return "/fake" }

func (c *fakeContext) HostPath(dir string) (string, error) { return "/fake/" + dir, nil }

func (c *fakeContext) Exec(context.Context, Command) (*Output, error) {
	return &Output{}, nil
}

func (c *fakeContext) Destroy(context.Context) error {
	c.destroyed++
	return nil
}

type fakeProvider struct {
	ctx   *fakeContext
	err   error
	specs []Spec
}

func (p *fakeProvider) Create(_ context.Context, spec Spec) (Context, error) {
	p.specs = append(p.specs, spec)
	if p.err != nil {
		return nil, p.err
	}
	return p.ctx, nil
}

func TestWithDestroysAfterSuccess(t *testing.T) {
	p := &fakeProvider{ctx: &fakeContext{}}

	err := With(t.Context(), p, Spec{Cleanup: true}, func(ec Context) error {
		assert.Equal(t, 0, p.ctx.destroyed)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, p.ctx.destroyed)
}

func TestWithDestroysAfterFailure(t *testing.T) {
	p := &fakeProvider{ctx: &fakeContext{}}
	boom := errors.New("boom")

	err := With(t.Context(), p, Spec{Cleanup: true}, func(Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, p.ctx.destroyed)
}

func TestWithDestroysAfterPanic(t *testing.T) {
	p := &fakeProvider{ctx: &fakeContext{}}

	assert.Panics(t, func() {
		_ = With(t.Context(), p, Spec{Cleanup: true}, func(Context) error { panic("boom") })
	})
	assert.Equal(t, 1, p.ctx.destroyed)
}

func TestWithKeepsContextWhenCleanupDisabled(t *testing.T) {
	p := &fakeProvider{ctx: &fakeContext{}}

	err := With(t.Context(), p, Spec{Cleanup: false}, func(Context) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, 0, p.ctx.destroyed)
}

func TestWithPropagatesCreateError(t *testing.T) {
	p := &fakeProvider{err: ErrContext}
	called := false

	err := With(t.Context(), p, Spec{Cleanup: true}, func(Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrContext)
	assert.False(t, called)
}

func TestWithPassesSpecThrough(t *testing.T) {
	p := &fakeProvider{ctx: &fakeContext{}}
	spec := Spec{Cleanup: true, SystemPackages: true, Dependencies: []Dependency{"a", "b"}}

	require.NoError(t, With(t.Context(), p, spec, func(Context) error { return nil }))
	require.Len(t, p.specs, 1)
	assert.Equal(t, spec, p.specs[0])
}

// Routes the default logger into a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}
