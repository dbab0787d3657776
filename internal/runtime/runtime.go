package runtime

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	goruntime "runtime"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/core/images"
	"github.com/containerd/errdefs"
	"github.com/containerd/platforms"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

const (

	// Snapshotter used for container filesystems. fuse-overlayfs provides
	// overlay semantics without requiring root privileges (no mount(2)),
	// allowing barn to drive containerd as a regular user.
	snapshotter = "fuse-overlayfs"

	// OCI runtime shim for running containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Manages the containerd client and provides image and container operations.
type Runtime struct {
	client *containerd.Client // Containerd client for managing containers and images.
}

// Creates a runtime connected to the containerd socket at the given address.
//
// The namespace scopes all containerd operations to a single tenant. The
// runtime must be closed when no longer needed.
func New(address, namespace string) (*Runtime, error) {
	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, wrap(err)
	}
	return &Runtime{client: client}, nil
}

// Closes the containerd client connection.
func (rt *Runtime) Close() error {
	return rt.client.Close()
}

// Resolves an image and starts a container from it.
//
// When ref names an existing file it is imported as an OCI archive and tagged
// with a deterministic name derived from the path; otherwise ref is pulled
// from its registry. Either way the layers for the target platform are
// unpacked, a container is created with a fresh snapshot and the given mounts,
// and a long-running task (sleep infinity) is started so that subsequent exec
// calls have a running process to attach to. Any existing container with the
// same ID is removed first. An empty platform selects the host platform.
func (rt *Runtime) StartContainer(ctx context.Context, ref, id, platform string, mounts []specs.Mount) (*Container, error) {
	if platform == "" {
		platform = DefaultPlatform()
	}

	tag, err := rt.ensureImage(ctx, ref, platform)
	if err != nil {
		return nil, wrap(err)
	}

	c := &Container{
		client:   rt.client,
		id:       id,
		platform: platform,
	}

	// Remove any stale container from a previous build with the same ID.
	c.remove(ctx)

	image, err := rt.resolveImage(ctx, tag, platform)
	if err != nil {
		return nil, wrap(err)
	}

	ctr, err := c.create(ctx, image, mounts)
	if err != nil {
		return nil, wrap(err)
	}

	if err := c.startTask(ctx, ctr); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, wrap(err)
	}

	slog.Debug("container started", "id", id, "image", tag, "platform", platform)

	return c, nil
}

// Makes the image available locally and returns the tag to resolve it by.
func (rt *Runtime) ensureImage(ctx context.Context, ref, platform string) (string, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return rt.importImage(ctx, ref, platform)
	}

	slog.Info("pulling image", "ref", ref, "platform", platform)

	img, err := rt.client.Pull(ctx, ref,
		containerd.WithPlatform(platform),
		containerd.WithPullUnpack,
		containerd.WithPullSnapshotter(snapshotter),
	)
	if err != nil {
		return "", err
	}
	return img.Name(), nil
}

// Imports an OCI archive, tags it and unpacks it for the platform.
func (rt *Runtime) importImage(ctx context.Context, path, platform string) (string, error) {
	tag := imageTag(path)

	source, err := rt.importArchive(ctx, path)
	if err != nil {
		return "", err
	}

	if err := rt.tagImage(ctx, source, tag); err != nil {
		return "", err
	}

	image, err := rt.resolveImage(ctx, tag, platform)
	if err != nil {
		return "", err
	}

	if err := image.Unpack(ctx, snapshotter); err != nil {
		return "", err
	}

	slog.Debug("image imported", "path", path, "tag", tag)
	return tag, nil
}

// Imports an OCI archive into the content store.
//
// The archive must contain exactly one image. Multi-platform archives are
// supported (single OCI index with per-platform manifests).
func (rt *Runtime) importArchive(ctx context.Context, path string) (images.Image, error) {
	fh, err := os.Open(path)
	if err != nil {
		return images.Image{}, err
	}
	defer fh.Close()

	imported, err := rt.client.Import(ctx, fh)
	if err != nil {
		return images.Image{}, err
	}

	// One record per image in the archive's index.json. Platform selection
	// happens later in resolveImage.
	if len(imported) == 0 {
		return images.Image{}, ErrEmptyArchive
	} else if len(imported) > 1 {
		return images.Image{}, ErrMultipleImages
	}

	return imported[0], nil
}

// Tags an imported image under a deterministic name.
//
// Updates the tag if it already exists. Removes the source record when its
// name differs from the tag to avoid duplicates.
func (rt *Runtime) tagImage(ctx context.Context, source images.Image, tag string) error {
	is := rt.client.ImageService()

	img := images.Image{
		Name:   tag,
		Target: source.Target,
	}

	if _, err := is.Create(ctx, img); err != nil {
		if !errdefs.IsAlreadyExists(err) {
			return err
		}
		if _, err := is.Update(ctx, img, "target"); err != nil {
			return err
		}
	}

	if source.Name != tag {
		_ = is.Delete(ctx, source.Name)
	}

	return nil
}

// Looks up a tagged image and selects the manifest for the given platform.
func (rt *Runtime) resolveImage(ctx context.Context, tag, platform string) (containerd.Image, error) {
	p, err := platforms.Parse(platform)
	if err != nil {
		return nil, err
	}

	img, err := rt.client.ImageService().Get(ctx, tag)
	if err != nil {
		return nil, err
	}

	return containerd.NewImageWithPlatform(rt.client, img, platforms.Only(p)), nil
}

// Produces a containerd image tag from an archive path.
//
// The path is hashed so the tag is a valid OCI reference regardless of which
// characters the path contains.
func imageTag(path string) string {
	h := sha256.Sum256([]byte(path))
	return fmt.Sprintf("import/%s:latest", hex.EncodeToString(h[:]))
}

// Returns the default OCI platform for the host architecture.
func DefaultPlatform() string {
	return "linux/" + goruntime.GOARCH
}
