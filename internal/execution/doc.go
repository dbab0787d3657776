// Package execution provides the isolated contexts build steps run in.
//
// A [Provider] creates a [Context] from a [Spec]: a working tree on the host,
// a process environment, and the dependencies the job declared. Two providers
// exist. [LocalProvider] runs processes on the host inside a private workspace
// whose GOPATH, module cache and GOBIN are isolated unless the [Spec] makes
// system packages visible. [ContainerProvider] runs processes in a containerd
// container with the workspace bind-mounted at /workspace.
//
// Contexts are acquired with [With], which guarantees release once the
// callback returns, unless the [Spec] disables cleanup:
//
//	err := execution.With(ctx, provider, spec, func(ec execution.Context) error {
//	    out, err := ec.Exec(ctx, execution.Command{Args: []string{"go", "test", "./..."}})
//	    ...
//	})
package execution
