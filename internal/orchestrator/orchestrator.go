package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cruciblehq/barn/internal/build"
	"github.com/cruciblehq/barn/internal/execution"
	"github.com/cruciblehq/barn/internal/logfields"
)

// Exit status of a build in which at least one step failed. The process
// reports it as 255.
const StatusFailed = -1

// Runs build invocations against its collaborators.
type Orchestrator struct {
	Config      Config      // Invocation options.
	Coordinator Coordinator // Staleness checks and result reports.
	Executor    Executor    // Runs the job's commands.
	Out         io.Writer   // Destination for rendered results and acknowledgments.
	Sinks       []Sink      // Post-run sinks, invoked in order.
}

// Runs the full lifecycle for job and returns the exit status.
//
// A skipped build returns 0. Errors from the coordinator, the job or the
// executor are returned wrapped in [ErrCheck], [ErrJob], [ErrExecute] or
// [ErrReport]; the status is meaningless when err is non-nil.
func (o *Orchestrator) Run(ctx context.Context, job Job) (int, error) {
	desc := Descriptor{Name: job.Name(), Tags: DeriveTags(job)}

	decision, err := o.Check(ctx, desc)
	if err != nil {
		return 0, err
	}
	if decision == Skip {
		slog.Info("check build says no need to build; bye", logfields.Job(desc.Name))
		o.record(ctx, Outcome{Descriptor: desc, Skipped: true})
		return 0, nil
	}

	deps, err := job.Configure()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrJob, err)
	}
	desc.Required = deps
	spec := o.contextSpec(desc)

	commands, err := job.DefineCommands()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrJob, err)
	}

	result, err := o.Executor.Execute(ctx, desc.Name, commands, spec)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecute, err)
	}
	result.ClientInfo.Tags = desc.Tags

	if o.Config.Report {
		if err := o.report(ctx, result, desc.Tags); err != nil {
			return 0, err
		}
	} else if err := Render(o.out(), result); err != nil {
		return 0, err
	}

	o.record(ctx, Outcome{Descriptor: desc, Result: result})

	return ExitStatus(result), nil
}

// Builds the execution-context spec for desc from the configuration.
func (o *Orchestrator) contextSpec(desc Descriptor) execution.Spec {
	return execution.Spec{
		Cleanup:        o.Config.Cleanup,
		SystemPackages: o.Config.SystemPackages,
		Dependencies:   desc.Required,
	}
}

// Acknowledges locally, then sends the result to the coordination service.
func (o *Orchestrator) report(ctx context.Context, result *build.Result, tags []string) error {
	fmt.Fprintf(o.out(), "Result: %t; sending\n", result.ClientInfo.Success)

	if err := o.Coordinator.Send(ctx, result, tags); err != nil {
		return fmt.Errorf("%w: %w", ErrReport, err)
	}

	slog.Info("build results sent", logfields.Job(result.ClientInfo.Job), logfields.Server(o.Config.Server()))
	return nil
}

// Passes the outcome to every sink. Sink failures are logged and ignored.
func (o *Orchestrator) record(ctx context.Context, outcome Outcome) {
	for _, sink := range o.Sinks {
		if err := sink.Record(ctx, outcome); err != nil {
			slog.Warn("post-run sink failed", slog.String("sink", sink.Name()), logfields.Error(err))
		}
	}
}

func (o *Orchestrator) out() io.Writer {
	if o.Out == nil {
		return io.Discard
	}
	return o.Out
}

// Returns 0 if the build succeeded and [StatusFailed] otherwise.
func ExitStatus(result *build.Result) int {
	if result.ClientInfo.Success {
		return 0
	}
	return StatusFailed
}
