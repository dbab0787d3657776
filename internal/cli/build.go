package cli

import (
	"context"
	"os"

	"github.com/cruciblehq/barn/internal"
	"github.com/cruciblehq/barn/internal/jobfile"
	"github.com/cruciblehq/barn/internal/orchestrator"
	"github.com/cruciblehq/barn/internal/settings"
)

// Flags shared by the build and watch commands.
type BuildFlags struct {
	ForceBuild   bool   `short:"f" name:"force-build" help:"Skip the staleness check and always build."`
	Report       bool   `short:"r" name:"report" help:"Send results to the coordination service instead of printing them."`
	NoCleanTemp  bool   `short:"N" name:"no-clean-temp" help:"Keep the execution context after the build."`
	ServerURL    string `short:"s" name:"server-url" help:"Override the coordination service address." placeholder:"URL"`
	SitePackages bool   `short:"P" name:"site-packages" help:"Make system-wide packages visible in the execution context."`
}

// Builds the immutable orchestrator configuration from flags and settings.
// Flags win over settings, which win over the built-in default server.
func (f BuildFlags) config(st *settings.Settings) orchestrator.Config {
	server := f.ServerURL
	if server == "" {
		server = st.ServerURL
	}
	if server == "" {
		server = orchestrator.DefaultServerURL
	}

	return orchestrator.Config{
		ForceBuild:     f.ForceBuild,
		Report:         f.Report,
		Cleanup:        !f.NoCleanTemp,
		ServerURL:      server,
		Verbose:        internal.IsVerbose() || internal.IsDebug(),
		SystemPackages: f.SitePackages,
	}
}

// Represents the 'barn build' command.
type BuildCmd struct {
	Jobfile string `arg:"" help:"Job file (YAML or TOML)." type:"existingfile"`

	BuildFlags `embed:""`
}

// Executes the build command.
//
// Returns an [ExitStatus] when the build ran but at least one step failed.
func (c *BuildCmd) Run(ctx context.Context) error {
	st, err := loadSettings()
	if err != nil {
		return err
	}

	job, err := jobfile.Load(c.Jobfile)
	if err != nil {
		return err
	}

	inv, err := newInvocation(ctx, st, c.config(st), os.Stdout)
	if err != nil {
		return err
	}
	defer inv.Close()

	status, err := inv.orchestrator.Run(ctx, job)
	if err != nil {
		return err
	}
	if status != 0 {
		return ExitStatus(status)
	}
	return nil
}
