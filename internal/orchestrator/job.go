package orchestrator

import (
	"context"

	"github.com/cruciblehq/barn/internal/build"
	"github.com/cruciblehq/barn/internal/execution"
)

// A buildable job.
type Job interface {

	// Name identifying the job to the coordination service.
	Name() string

	// Tags appended after the base tags.
	Tags() []string

	// Returns the dependencies the execution context must provide.
	Configure() ([]execution.Dependency, error)

	// Returns the ordered steps to run.
	DefineCommands() (build.CommandSequence, error)
}

// Identity of the job being built.
type Descriptor struct {
	Name     string
	Tags     []string
	Required []execution.Dependency
}

// Answers staleness checks and receives build results.
type Coordinator interface {
	Check(ctx context.Context, name string, tags []string) (bool, error)
	Send(ctx context.Context, result *build.Result, tags []string) error
}

// Runs a command sequence inside an execution context built from spec.
type Executor interface {
	Execute(ctx context.Context, name string, commands build.CommandSequence, spec execution.Spec) (*build.Result, error)
}
