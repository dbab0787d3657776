package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/cruciblehq/barn/internal/execution"
	"github.com/cruciblehq/barn/internal/logfields"
)

// A shell command run inside the execution context.
type Command struct {
	Run string // Script passed to the shell with -c.
}

func (Command) Type() string {
	return "command"
}

// Runs the command as "<shell> -c <run>". The step succeeds iff the command
// exits with code 0.
func (c Command) Perform(ctx context.Context, ec execution.Context, scope Scope) (bool, Fields, error) {
	slog.Debug("run", "command", c.Run, "shell", scope.Shell)

	start := time.Now()
	out, err := ec.Exec(ctx, execution.Command{
		Args: []string{scope.Shell, "-c", c.Run},
		Env:  scope.Env,
		Dir:  scope.Workdir,
	})
	if err != nil {
		return false, nil, err
	}

	var fields Fields
	fields.Add("type", c.Type())
	fields.Add("command", c.Run)
	fields.Add("exit_code", out.ExitCode)
	fields.Add("output", out.Stdout)
	fields.Add("errors", out.Stderr)
	fields.Add("duration", time.Since(start))

	if out.ExitCode != 0 {
		slog.Debug("command failed", logfields.ExitCode(out.ExitCode))
	}

	return out.ExitCode == 0, fields, nil
}
