package build

import (
	"context"

	"github.com/cruciblehq/barn/internal/execution"
)

// One entry of a command sequence.
//
// A step with an Action produces a [StepResult]; Shell, Workdir and Env then
// apply to that step only. A step without an Action is a standalone modifier
// whose fields persist for every following step.
type Step struct {
	Name              string            // Reported step name. Required for action steps.
	Action            Action            // Work performed by the step, or nil for a standalone modifier.
	Shell             string            // Shell used by command actions.
	Workdir           string            // Working directory, relative to the context root unless absolute.
	Env               map[string]string // Environment variables layered over the context environment.
	ContinueOnFailure bool              // Keep running later steps when this one fails.
}

// Ordered steps defined by a job.
type CommandSequence []Step

// Effective modifiers for a single action step.
type Scope struct {
	Shell   string   // Shell used by command actions.
	Workdir string   // Working directory, relative to the context root unless absolute.
	Env     []string // KEY=VALUE entries, sorted by key.
}

// Work performed by an action step.
type Action interface {

	// Short name reported in the step's "type" field.
	Type() string

	// Runs the action in ec. A false result with nil error is a failed step;
	// an error means the action could not be attempted at all and aborts the
	// build.
	Perform(ctx context.Context, ec execution.Context, scope Scope) (bool, Fields, error)
}
