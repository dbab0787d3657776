package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/cruciblehq/barn/internal/archive"
	"github.com/cruciblehq/barn/internal/build"
	"github.com/cruciblehq/barn/internal/coordination"
	"github.com/cruciblehq/barn/internal/execution"
	"github.com/cruciblehq/barn/internal/history"
	"github.com/cruciblehq/barn/internal/logfields"
	"github.com/cruciblehq/barn/internal/metrics"
	"github.com/cruciblehq/barn/internal/orchestrator"
	"github.com/cruciblehq/barn/internal/runtime"
	"github.com/cruciblehq/barn/internal/settings"
)

// Collaborators for build invocations, assembled from settings.
type invocation struct {
	orchestrator *orchestrator.Orchestrator
	closers      []io.Closer
}

// Assembles the orchestrator for cfg. Optional sinks are wired only when the
// settings enable them, in the order history, archive, metrics.
func newInvocation(ctx context.Context, st *settings.Settings, cfg orchestrator.Config, out io.Writer) (*invocation, error) {
	inv := &invocation{}

	coord, err := coordination.New(cfg.Server())
	if err != nil {
		return nil, err
	}
	inv.closers = append(inv.closers, coord)

	provider, err := inv.provider(st.Context)
	if err != nil {
		inv.Close()
		return nil, err
	}

	runner := &build.Runner{Provider: provider}
	var sinks []orchestrator.Sink

	if st.History.Enabled {
		store, err := history.Open(st.History.Path)
		if err != nil {
			inv.Close()
			return nil, err
		}
		inv.closers = append(inv.closers, store)
		sinks = append(sinks, history.Sink{Store: store})
	}

	if st.Archive.Bucket != "" {
		a, err := archive.Open(ctx, st.Archive.Bucket, st.Archive.Prefix)
		if err != nil {
			inv.Close()
			return nil, err
		}
		inv.closers = append(inv.closers, a)
		sinks = append(sinks, archive.Sink{Archive: a})
	}

	if st.Metrics.Textfile != "" {
		rec := metrics.NewPrometheusRecorder(nil)
		runner.Recorder = rec
		sinks = append(sinks, orchestrator.MetricsSink{Recorder: rec, Path: st.Metrics.Textfile})
	}

	inv.orchestrator = &orchestrator.Orchestrator{
		Config:      cfg,
		Coordinator: coord,
		Executor:    runner,
		Out:         out,
		Sinks:       sinks,
	}
	return inv, nil
}

// Creates the execution-context provider selected by the settings.
func (inv *invocation) provider(c settings.Context) (execution.Provider, error) {
	switch c.Kind {
	case settings.ContextContainer:
		rt, err := runtime.New(c.Containerd.Address, c.Containerd.Namespace)
		if err != nil {
			return nil, err
		}
		inv.closers = append(inv.closers, rt)

		p := execution.NewContainerProvider(rt, c.Image)
		p.Platform = c.Platform
		p.BaseDir = c.BaseDir
		p.SystemPaths = c.SystemPaths
		p.Installer = c.Installer

		slog.Debug("using container execution context", logfields.Context(c.Kind), slog.String("image", c.Image))
		return p, nil

	default:
		slog.Debug("using local execution context", logfields.Context(c.Kind))
		return &execution.LocalProvider{BaseDir: c.BaseDir, Installer: c.Installer}, nil
	}
}

// Releases every collaborator in reverse order of creation.
func (inv *invocation) Close() error {
	var errs []error
	for i := len(inv.closers) - 1; i >= 0; i-- {
		errs = append(errs, inv.closers[i].Close())
	}
	inv.closers = nil
	return errors.Join(errs...)
}
