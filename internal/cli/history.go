package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cruciblehq/barn/internal/history"
)

// Represents the 'barn history' command.
type HistoryCmd struct {
	Job   string `arg:"" optional:"" help:"Only list invocations of this job."`
	Limit int    `short:"n" default:"20" help:"Maximum number of entries to list. Zero lists all."`
}

// Executes the history command.
func (c *HistoryCmd) Run(ctx context.Context) error {
	st, err := loadSettings()
	if err != nil {
		return err
	}

	store, err := history.Open(st.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, c.Job, c.Limit)
	if err != nil {
		return err
	}

	return writeHistory(os.Stdout, entries)
}

// Writes entries as an aligned table.
func writeHistory(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no recorded invocations")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tJOB\tOUTCOME\tSTEPS\tDURATION\tTAGS")
	for _, e := range entries {
		steps := "-"
		if e.Outcome != "skipped" {
			steps = fmt.Sprintf("%d/%d", e.Steps-e.FailedSteps, e.Steps)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Started.Local().Format(time.DateTime),
			e.Job,
			e.Outcome,
			steps,
			e.Duration.Round(time.Millisecond),
			strings.Join(e.Tags, ","),
		)
	}
	return tw.Flush()
}
