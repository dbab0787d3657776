package execution

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cruciblehq/barn/internal/logfields"
	"github.com/cruciblehq/barn/internal/paths"
)

// Installer used when a provider is not configured with one. Each dependency
// is appended as the last argument.
var DefaultInstaller = []string{"go", "install"}

const (
	binDir    = "bin"    // Workspace subdirectory for installed executables (GOBIN).
	gopathDir = "gopath" // Workspace subdirectory used as GOPATH when isolated.
)

// Creates a fresh, uniquely named workspace directory under base.
//
// An empty base selects [paths.Workspaces]. The returned directory already
// contains the bin subdirectory.
func newWorkspace(base string) (string, error) {
	if base == "" {
		base = paths.Workspaces()
	}
	if err := os.MkdirAll(base, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrContext, err)
	}

	dir, err := os.MkdirTemp(base, time.Now().Format("20060102-150405")+"-*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContext, err)
	}

	if err := os.MkdirAll(filepath.Join(dir, binDir), paths.DefaultDirMode); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("%w: %w", ErrContext, err)
	}

	slog.Debug("created workspace", logfields.Path(dir))
	return dir, nil
}

// Returns p cleaned, or [ErrOutsideRoot] when it does not lie within root.
func withinRoot(root, p string) (string, error) {
	p = filepath.Clean(p)
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
	}
	return p, nil
}

// Destroys a context abandoned during creation, logging any failure.
func discard(ctx context.Context, ec Context) {
	if err := ec.Destroy(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("failed to destroy execution context", logfields.Path(ec.Root()), logfields.Error(err))
	}
}

// Returns the Go toolchain variables that isolate a context rooted at root.
//
// GOBIN always points into the context. Unless system packages are visible,
// GOPATH and the module cache live inside the context too, and the cache is
// made writable so the workspace can be removed.
func isolationEnv(root string, systemPackages bool) []string {
	env := []string{"GOBIN=" + filepath.Join(root, binDir)}
	if !systemPackages {
		gopath := filepath.Join(root, gopathDir)
		env = append(env,
			"GOPATH="+gopath,
			"GOMODCACHE="+filepath.Join(gopath, "pkg", "mod"),
			"GOFLAGS=-modcacherw",
		)
	}
	return env
}

// Installs each dependency into the context with the given installer.
func install(ctx context.Context, ec Context, installer []string, deps []Dependency) error {
	if len(installer) == 0 {
		installer = DefaultInstaller
	}

	for _, dep := range deps {
		slog.Info("installing dependency", "dependency", string(dep))

		out, err := ec.Exec(ctx, Command{Args: append(slices.Clone(installer), string(dep))})
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDependency, dep, err)
		}
		if out.ExitCode != 0 {
			return fmt.Errorf("%w: %s: exit code %d: %s", ErrDependency, dep, out.ExitCode, strings.TrimSpace(out.Stderr))
		}
	}
	return nil
}
