package execution

import (
	"context"
	"log/slog"

	"github.com/cruciblehq/barn/internal/logfields"
)

// A dependency specifier handed to the context's installer, e.g.
// "golang.org/x/tools/cmd/stringer@latest".
type Dependency string

// Parameters for the isolated environment a build runs in.
type Spec struct {
	Cleanup        bool         // Destroy the context once the build is done.
	SystemPackages bool         // Make host-wide packages visible inside the context.
	Dependencies   []Dependency // Installed into the context before any step runs.
}

// A process to run inside a context.
type Command struct {
	Args []string // Program and arguments. Args[0] is resolved against the context PATH.
	Env  []string // KEY=VALUE entries layered over the context environment.
	Dir  string   // Working directory; relative paths are resolved against the context root.
}

// Captured result of a process that ran to completion.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// An isolated environment that build steps run in.
type Context interface {

	// Host directory holding the context's working tree.
	Root() string

	// Maps a command working directory, as [Command.Dir] would be given, to
	// its host path. Directories that resolve outside Root are rejected with
	// [ErrOutsideRoot].
	HostPath(dir string) (string, error)

	// Runs a command to completion. A non-zero exit is reported in the
	// output; an error means the command could not be run at all.
	Exec(ctx context.Context, cmd Command) (*Output, error)

	// Releases every resource the context holds.
	Destroy(ctx context.Context) error
}

// Creates execution contexts.
type Provider interface {
	Create(ctx context.Context, spec Spec) (Context, error)
}

// Creates a context from spec, passes it to fn, and releases it afterwards.
//
// Release happens whether fn succeeds, fails or panics. When spec.Cleanup is
// false the context is left in place and its location logged instead. A
// failure to destroy the context is logged and does not replace fn's error.
func With(ctx context.Context, p Provider, spec Spec, fn func(Context) error) error {
	ec, err := p.Create(ctx, spec)
	if err != nil {
		return err
	}

	defer func() {
		if !spec.Cleanup {
			slog.Info("leaving execution context in place", logfields.Path(ec.Root()))
			return
		}
		if err := ec.Destroy(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to destroy execution context", logfields.Path(ec.Root()), logfields.Error(err))
		}
	}()

	return fn(ec)
}
