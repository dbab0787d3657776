package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	goruntime "runtime"
	"time"

	"github.com/google/uuid"

	"github.com/cruciblehq/barn/internal/execution"
	"github.com/cruciblehq/barn/internal/logfields"
	"github.com/cruciblehq/barn/internal/metrics"
	"github.com/cruciblehq/barn/internal/paths"
)

// Executes command sequences inside execution contexts.
type Runner struct {
	Provider execution.Provider // Source of execution contexts.
	Recorder metrics.Recorder   // Step observations. Nil records nothing.
}

// Runs commands for the named job inside a context created from spec.
//
// The context is released when the run ends, unless spec.Cleanup is false.
// Failed steps are reported in the result; an error is returned only when the
// context cannot be created or a step cannot be attempted at all.
func (r *Runner) Execute(ctx context.Context, name string, commands CommandSequence, spec execution.Spec) (*Result, error) {
	buildID := uuid.NewString()
	started := time.Now()

	slog.Info("executing build",
		logfields.Job(name),
		logfields.BuildID(buildID),
		slog.Int("steps", len(commands)),
	)

	var steps []StepResult
	err := execution.With(ctx, r.Provider, spec, func(ec execution.Context) error {
		var err error
		steps, err = r.runSteps(ctx, ec, name, commands)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	duration := time.Since(started)
	r.recorder().ObserveBuildDuration(name, duration)

	host, _ := os.Hostname()
	result := &Result{
		ClientInfo: ClientInfo{
			Success:  Aggregate(steps),
			BuildID:  buildID,
			Job:      name,
			Host:     host,
			OS:       goruntime.GOOS,
			Arch:     goruntime.GOARCH,
			Started:  started,
			Duration: duration,
		},
		Steps: steps,
	}

	slog.Info("build finished",
		logfields.Job(name),
		logfields.BuildID(buildID),
		logfields.Success(result.ClientInfo.Success),
		logfields.Duration(duration),
	)

	return result, nil
}

// Runs the steps in order, stopping after the first failed step that does not
// allow continuing.
func (r *Runner) runSteps(ctx context.Context, ec execution.Context, name string, commands CommandSequence) ([]StepResult, error) {
	state := newStepState()
	var results []StepResult

	for i, step := range commands {
		if step.Action == nil {
			state.apply(step)
			continue
		}

		result, err := r.runStep(ctx, ec, name, step, state.resolve(step))
		if err != nil {
			return nil, fmt.Errorf("%w: step %d (%s): %w", ErrStep, i+1, step.Name, err)
		}
		results = append(results, result)

		if !result.Success && !step.ContinueOnFailure {
			slog.Warn("step failed, stopping build", logfields.Job(name), logfields.Step(step.Name))
			break
		}
	}

	return results, nil
}

// Runs a single action step with its resolved modifiers.
func (r *Runner) runStep(ctx context.Context, ec execution.Context, name string, step Step, resolved *stepState) (StepResult, error) {
	if err := ensureWorkdir(ec, resolved.workdir); err != nil {
		return StepResult{}, err
	}

	slog.Info("running step", logfields.Job(name), logfields.Step(step.Name), slog.String("type", step.Action.Type()))

	start := time.Now()
	ok, fields, err := step.Action.Perform(ctx, ec, resolved.scope())
	if err != nil {
		return StepResult{}, err
	}

	rec := r.recorder()
	rec.ObserveStepDuration(name, step.Name, time.Since(start))
	rec.IncStepResult(name, step.Name, ok)

	slog.Debug("step finished", logfields.Step(step.Name), logfields.Success(ok))

	return StepResult{Name: step.Name, Success: ok, Fields: fields}, nil
}

func (r *Runner) recorder() metrics.Recorder {
	if r.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return r.Recorder
}

// Creates a relative working directory inside the context root. Absolute
// directories are left to the context.
func ensureWorkdir(ec execution.Context, workdir string) error {
	if workdir == "" || filepath.IsAbs(workdir) {
		return nil
	}
	dir, err := ec.HostPath(workdir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return nil
}
