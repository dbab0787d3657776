package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cruciblehq/barn/internal/logfields"
	"github.com/cruciblehq/barn/internal/runtime"
)

// Creates contexts that run processes directly on the host.
type LocalProvider struct {
	BaseDir   string   // Directory workspaces are created under. Empty uses the XDG cache.
	Installer []string // Dependency installer. Empty uses [DefaultInstaller].
}

// Creates a workspace, derives its environment and installs the spec's
// dependencies. A context whose dependencies fail to install is destroyed
// before returning, unless cleanup is disabled.
func (p *LocalProvider) Create(ctx context.Context, spec Spec) (Context, error) {
	root, err := newWorkspace(p.BaseDir)
	if err != nil {
		return nil, err
	}

	bin := filepath.Join(root, binDir)
	env := runtime.MergeEnv(os.Environ(), isolationEnv(root, spec.SystemPackages))
	env = runtime.MergeEnv(env, []string{"PATH=" + bin + string(os.PathListSeparator) + os.Getenv("PATH")})

	lc := &localContext{root: root, env: env}

	slog.Info("created local execution context",
		logfields.Path(root),
		slog.Bool("system_packages", spec.SystemPackages),
		slog.Int("dependencies", len(spec.Dependencies)),
	)

	if err := install(ctx, lc, p.Installer, spec.Dependencies); err != nil {
		if spec.Cleanup {
			discard(ctx, lc)
		}
		return nil, err
	}

	return lc, nil
}

// A workspace directory on the host with its own process environment.
type localContext struct {
	root string
	env  []string
}

func (c *localContext) Root() string {
	return c.root
}

// Runs the command on the host, resolving the program against the context's
// PATH rather than the PATH barn itself was started with.
func (c *localContext) Exec(ctx context.Context, cmd Command) (*Output, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrExec)
	}

	env := runtime.MergeEnv(c.env, cmd.Env)

	program, err := lookPath(cmd.Args[0], envValue(env, "PATH"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExec, err)
	}

	proc := exec.CommandContext(ctx, program, cmd.Args[1:]...)
	proc.Dir = c.resolve(cmd.Dir)
	proc.Env = env

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	out := &Output{}
	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %w", ErrExec, err)
		}
		out.ExitCode = exitErr.ExitCode()
	}

	out.Stdout = stdout.String()
	out.Stderr = stderr.String()
	return out, nil
}

// Removes the workspace directory.
func (c *localContext) Destroy(ctx context.Context) error {
	if err := os.RemoveAll(c.root); err != nil {
		return fmt.Errorf("%w: %w", ErrContext, err)
	}
	slog.Debug("removed workspace", logfields.Path(c.root))
	return nil
}

// Resolves a command directory against the workspace root.
func (c *localContext) resolve(dir string) string {
	if dir == "" {
		return c.root
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.root, dir)
}

// Resolves dir like a command directory and keeps it inside the workspace.
func (c *localContext) HostPath(dir string) (string, error) {
	return withinRoot(c.root, c.resolve(dir))
}

// Finds an executable in the given PATH list. Names containing a separator are
// returned as-is.
func lookPath(name, pathList string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return name, nil
	}
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%q not found in PATH", name)
}

// Returns the value of key in a KEY=VALUE list, or "".
func envValue(env []string, key string) string {
	for _, entry := range env {
		if k, v, ok := strings.Cut(entry, "="); ok && k == key {
			return v
		}
	}
	return ""
}
