package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/barn/internal/logfields"
)

// Result of the staleness check.
type Decision int

const (
	Proceed Decision = iota // Build the job.
	Skip                    // Nothing to do; finish successfully.
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Asks the coordination service whether the job needs building.
//
// With ForceBuild set the service is not contacted and the decision is
// always [Proceed].
func (o *Orchestrator) Check(ctx context.Context, desc Descriptor) (Decision, error) {
	if o.Config.ForceBuild {
		slog.Debug("force build, skipping staleness check", logfields.Job(desc.Name))
		return Proceed, nil
	}

	slog.Debug("checking whether build is needed",
		logfields.Job(desc.Name),
		logfields.Server(o.Config.Server()),
		logfields.Tags(desc.Tags),
	)

	needed, err := o.Coordinator.Check(ctx, desc.Name, desc.Tags)
	if err != nil {
		return Proceed, fmt.Errorf("%w: %w", ErrCheck, err)
	}
	if !needed {
		return Skip, nil
	}
	return Proceed, nil
}
