package execution

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/cruciblehq/barn/internal/logfields"
	"github.com/cruciblehq/barn/internal/runtime"
)

const (

	// Where the workspace is mounted inside build containers.
	containerRoot = "/workspace"

	// PATH inside build containers. The workspace bin directory comes first so
	// installed dependencies shadow the image's tools.
	containerPath = containerRoot + "/" + binDir + ":/go/bin:/usr/local/go/bin:/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"
)

// The subset of a started container used by a container context.
type containerHandle interface {
	ID() string
	ExecArgs(ctx context.Context, args []string, env []string, workdir string) (*runtime.ExecResult, error)
	Destroy(ctx context.Context) error
}

// Starts a container; satisfied by [runtime.Runtime.StartContainer].
type startFunc func(ctx context.Context, ref, id, platform string, mounts []specs.Mount) (containerHandle, error)

// Creates contexts backed by containerd containers.
type ContainerProvider struct {
	Image       string   // Image reference or path to an OCI archive.
	Platform    string   // Target platform. Empty uses the host platform.
	BaseDir     string   // Host directory workspaces are created under.
	SystemPaths []string // Host paths mounted read-only when system packages are visible.
	Installer   []string // Dependency installer. Empty uses [DefaultInstaller].

	start startFunc
}

// Creates a provider that starts containers on rt.
func NewContainerProvider(rt *runtime.Runtime, image string) *ContainerProvider {
	return &ContainerProvider{
		Image: image,
		start: func(ctx context.Context, ref, id, platform string, mounts []specs.Mount) (containerHandle, error) {
			return rt.StartContainer(ctx, ref, id, platform, mounts)
		},
	}
}

// Creates a host workspace, starts a container with the workspace mounted at
// /workspace and installs the [Spec] dependencies inside it.
func (p *ContainerProvider) Create(ctx context.Context, spec Spec) (Context, error) {
	if p.start == nil || p.Image == "" {
		return nil, fmt.Errorf("%w: container provider has no runtime or image", ErrContext)
	}

	root, err := newWorkspace(p.BaseDir)
	if err != nil {
		return nil, err
	}

	id := "barn-" + uuid.NewString()
	ctr, err := p.start(ctx, p.Image, id, p.Platform, p.mounts(root, spec.SystemPackages))
	if err != nil {
		os.RemoveAll(root)
		return nil, fmt.Errorf("%w: %w", ErrContext, err)
	}

	cc := &containerContext{
		root: root,
		ctr:  ctr,
		env:  append(isolationEnv(containerRoot, spec.SystemPackages), "PATH="+containerPath),
	}

	slog.Info("created container execution context",
		logfields.Path(root),
		slog.String("container", ctr.ID()),
		slog.String("image", p.Image),
		slog.Bool("system_packages", spec.SystemPackages),
		slog.Int("dependencies", len(spec.Dependencies)),
	)

	if err := install(ctx, cc, p.Installer, spec.Dependencies); err != nil {
		if spec.Cleanup {
			discard(ctx, cc)
		}
		return nil, err
	}

	return cc, nil
}

// Returns the mounts for a container whose workspace lives at root.
func (p *ContainerProvider) mounts(root string, systemPackages bool) []specs.Mount {
	mounts := []specs.Mount{runtime.BindMount(root, containerRoot)}
	if systemPackages {
		for _, hostPath := range p.SystemPaths {
			mounts = append(mounts, runtime.ReadOnlyMount(hostPath, hostPath))
		}
	}
	return mounts
}

// A container with a host workspace bind-mounted into it.
type containerContext struct {
	root string
	ctr  containerHandle
	env  []string
}

func (c *containerContext) Root() string {
	return c.root
}

func (c *containerContext) Exec(ctx context.Context, cmd Command) (*Output, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrExec)
	}

	res, err := c.ctr.ExecArgs(ctx, cmd.Args, runtime.MergeEnv(c.env, cmd.Env), containerDir(cmd.Dir))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExec, err)
	}

	return &Output{
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}, nil
}

// Maps a container directory back to the bind-mounted host workspace. Only
// directories under /workspace exist on the host.
func (c *containerContext) HostPath(dir string) (string, error) {
	inside := path.Clean(containerDir(dir))
	if inside == containerRoot {
		return c.root, nil
	}
	rel, ok := strings.CutPrefix(inside, containerRoot+"/")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, dir)
	}
	return withinRoot(c.root, filepath.Join(c.root, filepath.FromSlash(rel)))
}

// Destroys the container, then removes the host workspace.
func (c *containerContext) Destroy(ctx context.Context) error {
	if err := c.ctr.Destroy(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrContext, err)
	}
	if err := os.RemoveAll(c.root); err != nil {
		return fmt.Errorf("%w: %w", ErrContext, err)
	}
	return nil
}

// Maps a command directory to its path inside the container.
func containerDir(dir string) string {
	if dir == "" {
		return containerRoot
	}
	if path.IsAbs(filepath.ToSlash(dir)) {
		return filepath.ToSlash(dir)
	}
	return path.Join(containerRoot, filepath.ToSlash(dir))
}
