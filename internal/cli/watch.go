package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/cruciblehq/barn/internal/jobfile"
	"github.com/cruciblehq/barn/internal/logfields"
	"github.com/cruciblehq/barn/internal/orchestrator"
)

// Represents the 'barn watch' command.
type WatchCmd struct {
	Jobfile string        `arg:"" help:"Job file (YAML or TOML)." type:"existingfile"`
	Every   time.Duration `default:"15m" help:"Interval between invocations."`

	BuildFlags `embed:""`
}

// Executes the watch command.
//
// Runs one invocation immediately and then one per interval until the context
// is cancelled. Invocations never overlap; one still running when the next is
// due delays it. The job file is reloaded for every invocation, and failures
// are logged without stopping the schedule.
func (c *WatchCmd) Run(ctx context.Context) error {
	if c.Every <= 0 {
		return fmt.Errorf("--every must be positive, got %s", c.Every)
	}

	st, err := loadSettings()
	if err != nil {
		return err
	}

	inv, err := newInvocation(ctx, st, c.config(st), os.Stdout)
	if err != nil {
		return err
	}
	defer inv.Close()

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(c.Every),
		gocron.NewTask(c.invoke, ctx, inv.orchestrator),
		gocron.WithName("barn-watch"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to schedule build: %w", err)
	}

	slog.Info("watching job", logfields.Path(c.Jobfile), slog.Duration("every", c.Every))
	s.Start()

	<-ctx.Done()

	slog.Info("shutting down")
	return s.Shutdown()
}

// Runs one scheduled invocation.
func (c *WatchCmd) invoke(ctx context.Context, o *orchestrator.Orchestrator) {
	if ctx.Err() != nil {
		return
	}

	job, err := jobfile.Load(c.Jobfile)
	if err != nil {
		slog.Error("failed to load job file", logfields.Path(c.Jobfile), logfields.Error(err))
		return
	}

	status, err := o.Run(ctx, job)
	if err != nil {
		slog.Error("build invocation failed", logfields.Job(job.Name()), logfields.Error(err))
		return
	}
	slog.Info("build invocation finished", logfields.Job(job.Name()), logfields.ExitCode(status))
}
