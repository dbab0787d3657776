// Package build runs a job's command sequence inside an execution context and
// collects the outcome.
//
// A [CommandSequence] is an ordered list of steps. Steps carrying an [Action]
// ([Command] or [Clone]) produce one [StepResult] each; steps carrying only
// modifiers (shell, working directory, environment) update the state seen by
// every step after them. Modifiers set on an action step apply to that step
// alone.
//
// The [Runner] acquires a context from an [execution.Provider], runs the steps
// in order and returns a [Result] whose client info reports the aggregate
// success computed by [Aggregate]. Execution stops after the first failed step
// unless the step sets ContinueOnFailure.
//
// Example usage:
//
//	runner := &build.Runner{Provider: &execution.LocalProvider{}}
//	result, err := runner.Execute(ctx, "mypkg", build.CommandSequence{
//	    {Name: "build", Action: build.Command{Run: "go build ./..."}},
//	    {Name: "test", Action: build.Command{Run: "go test ./..."}},
//	}, execution.Spec{Cleanup: true})
//	if err != nil {
//	    return err
//	}
package build
