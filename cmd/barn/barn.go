package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/cruciblehq/barn/internal"
	"github.com/cruciblehq/barn/internal/cli"
)

// The entry point for the barn build client.
//
// Initializes logging, displays startup information, and executes the root
// command. A build whose steps failed exits with the status it reported; any
// other error exits with 1.
func main() {
	slog.SetDefault(logger())

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("barn is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	err := cli.Execute()
	if err == nil {
		return
	}

	var status cli.ExitStatus
	if errors.As(err, &status) {
		os.Exit(status.Code())
	}

	slog.Error(err.Error())
	os.Exit(1)
}

// Creates a stderr logger seeded from build-time linker flags.
//
// The level is adjusted after flag parsing via cli.Execute.
func logger() *slog.Logger {
	cli.Level.Set(internal.LogLevel())
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cli.Level})
	return slog.New(handler.WithGroup(internal.Name))
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
