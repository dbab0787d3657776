package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/cruciblehq/barn/internal/execution"
	"github.com/cruciblehq/barn/internal/logfields"
)

// A git checkout into the execution context's working tree.
type Clone struct {
	URL string // Repository URL or local path.
	Ref string // Branch name or full reference. Empty clones the default branch.
	Dir string // Destination, relative to the step's working directory. Must stay inside the context.
}

func (Clone) Type() string {
	return "clone"
}

// Clones the repository on the host side of the context's working tree. A
// clone that fails, or whose destination lies outside the context, is
// reported as a failed step.
func (c Clone) Perform(ctx context.Context, ec execution.Context, scope Scope) (bool, Fields, error) {
	var fields Fields
	fields.Add("type", c.Type())
	fields.Add("url", c.URL)
	fields.Add("ref", c.Ref)

	dest, err := c.destination(ec, scope.Workdir)
	if err != nil {
		fields.Add("errors", err.Error())
		return false, fields, nil
	}

	opts := &git.CloneOptions{URL: c.URL}
	if c.Ref != "" {
		opts.ReferenceName = referenceName(c.Ref)
		opts.SingleBranch = true
	}

	slog.Debug("clone", "url", c.URL, "ref", c.Ref, logfields.Path(dest))

	start := time.Now()
	repo, err := git.PlainCloneContext(ctx, dest, false, opts)
	if err != nil {
		fields.Add("errors", err.Error())
		fields.Add("duration", time.Since(start))
		return false, fields, nil
	}

	revision := ""
	if head, err := repo.Head(); err == nil {
		revision = head.Hash().String()
	}
	fields.Add("revision", revision)
	fields.Add("duration", time.Since(start))

	return true, fields, nil
}

// Returns the host path the repository is cloned into. The destination is
// resolved the way a command in workdir would see dir, then mapped back to
// the host through the context.
func (c Clone) destination(ec execution.Context, workdir string) (string, error) {
	dir := c.Dir
	if dir == "" {
		dir = repoName(c.URL)
	}
	if filepath.IsAbs(dir) {
		return "", fmt.Errorf("%w: clone dir %q must be relative", execution.ErrOutsideRoot, dir)
	}
	return ec.HostPath(filepath.Join(workdir, dir))
}

// Maps a short branch name to its full reference name.
func referenceName(ref string) plumbing.ReferenceName {
	if strings.HasPrefix(ref, "refs/") {
		return plumbing.ReferenceName(ref)
	}
	return plumbing.NewBranchReferenceName(ref)
}

// Derives a directory name from the last element of a repository URL.
func repoName(url string) string {
	name := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "repo"
	}
	return name
}
