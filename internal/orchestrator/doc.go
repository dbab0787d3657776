// Package orchestrator runs the lifecycle of one build invocation.
//
// An [Orchestrator] takes a [Job] through a fixed sequence: derive the tag
// list, ask the coordination service whether the job needs building, build
// the execution-context spec from the job's dependencies, obtain the job's
// command sequence, hand everything to the [Executor], then either report the
// result to the coordination service or render it locally. The returned exit
// status is 0 when every step succeeded and [StatusFailed] otherwise.
//
// A negative staleness check is a normal outcome: Run returns status 0
// without creating an execution context. Collaborator errors are returned
// unchanged in kind and are never retried.
//
// Example usage:
//
//	o := &orchestrator.Orchestrator{
//	    Config:      cfg,
//	    Coordinator: coord,
//	    Executor:    &build.Runner{Provider: provider},
//	    Out:         os.Stdout,
//	}
//	status, err := o.Run(ctx, job)
package orchestrator
