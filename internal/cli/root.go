package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/cruciblehq/barn/internal"
	"github.com/cruciblehq/barn/internal/settings"
)

// Level of the process-wide logger, adjusted after flag parsing.
var Level = new(slog.LevelVar)

// Represents the root command for barn.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Config  string     `help:"Override the default settings file path." placeholder:"PATH" type:"path"`
	Build   BuildCmd   `cmd:"" help:"Build a job once."`
	Watch   WatchCmd   `cmd:"" help:"Build a job repeatedly on a fixed interval."`
	History HistoryCmd `cmd:"" help:"List recorded build invocations."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("A build client.\n\nAsks a coordination service whether a job needs building, runs its steps in an isolated execution context and reports or prints the results."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Folds CLI flags into the global modes and updates the logger level.
func configureLogger() {
	if RootCmd.Debug {
		internal.SetDebug(true)
	}
	if RootCmd.Verbose {
		internal.SetVerbose(true)
	}
	if RootCmd.Quiet {
		internal.SetQuiet(true)
	}
	Level.Set(internal.LogLevel())
}

// Loads the settings named by --config, or the default settings file.
func loadSettings() (*settings.Settings, error) {
	return settings.Load(RootCmd.Config)
}
