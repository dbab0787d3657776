// Package runtime manages build containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and starts containers from an
// image reference. References are pulled from their registry and unpacked for
// the target platform; a path to an existing OCI archive is imported instead,
// tagged with a deterministic content hash. Containers get overlay snapshots
// and any bind mounts the caller asks for.
//
// Each [Container] wraps a long-running containerd task. Commands are executed
// inside it as additional processes and their output captured. When the
// container is no longer needed it should be destroyed to release its snapshot
// and task resources.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "barn")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartContainer(ctx, "docker.io/library/golang:1.25", "barn-1", "linux/amd64", nil)
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.ExecArgs(ctx, []string{"go", "version"}, nil, "")
//	if err != nil {
//	    return err
//	}
package runtime
