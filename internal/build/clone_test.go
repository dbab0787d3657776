package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruciblehq/barn/internal/execution"
)

// Creates a repository with one commit and returns its path and head hash.
func newTestRepo(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o600))

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("main.go")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, hash.String()
}

func TestCloneStep(t *testing.T) {
	repoDir, head := newTestRepo(t)
	r, _ := newTestRunner(t)

	result, err := r.Execute(t.Context(), "mypkg", CommandSequence{
		{Name: "checkout", Action: Clone{URL: repoDir, Dir: "src"}},
		{Workdir: "src"},
		{Name: "list", Action: Command{Run: "ls"}},
	}, execution.Spec{Cleanup: true})
	require.NoError(t, err)

	require.Len(t, result.Steps, 2)
	assert.True(t, result.ClientInfo.Success)

	revision, _ := result.Steps[0].Fields.Get("revision")
	assert.Equal(t, head, revision)
	typ, _ := result.Steps[0].Fields.Get("type")
	assert.Equal(t, "clone", typ)

	out, _ := result.Steps[1].Fields.Get("output")
	assert.Equal(t, "main.go\n", out)
}

func TestCloneFailureIsFailedStep(t *testing.T) {
	r, _ := newTestRunner(t)

	result, err := r.Execute(t.Context(), "mypkg", CommandSequence{
		{Name: "checkout", Action: Clone{URL: filepath.Join(t.TempDir(), "missing")}},
		{Name: "never", Action: Command{Run: "true"}},
	}, execution.Spec{Cleanup: true})
	require.NoError(t, err)

	assert.False(t, result.ClientInfo.Success)
	require.Len(t, result.Steps, 1)
	msg, ok := result.Steps[0].Fields.Get("errors")
	assert.True(t, ok)
	assert.NotEmpty(t, msg)
}

// Records the directories a clone asks the context to map.
type mappingContext struct {
	execution.Context
	asked []string
}

func (c *mappingContext) Root() string { return "/host/ws" }

func (c *mappingContext) HostPath(dir string) (string, error) {
	c.asked = append(c.asked, dir)
	rel, ok := strings.CutPrefix(dir, "/workspace/")
	if !ok {
		return "", execution.ErrOutsideRoot
	}
	return "/host/ws/" + rel, nil
}

func TestCloneDestination(t *testing.T) {
	p := &execution.LocalProvider{BaseDir: t.TempDir()}
	ec, err := p.Create(t.Context(), execution.Spec{Cleanup: true})
	require.NoError(t, err)
	defer ec.Destroy(t.Context())
	root := ec.Root()

	tests := []struct {
		name    string
		clone   Clone
		workdir string
		want    string
	}{
		{name: "explicit dir", clone: Clone{URL: "https://example.com/a.git", Dir: "src"}, want: filepath.Join(root, "src")},
		{name: "derived from url", clone: Clone{URL: "https://example.com/org/mypkg.git"}, want: filepath.Join(root, "mypkg")},
		{name: "scp style url", clone: Clone{URL: "git@example.com:mypkg"}, want: filepath.Join(root, "mypkg")},
		{name: "relative workdir", clone: Clone{URL: "x", Dir: "src"}, workdir: "build", want: filepath.Join(root, "build", "src")},
		{name: "absolute workdir inside root", clone: Clone{URL: "x", Dir: "src"}, workdir: filepath.Join(root, "build"), want: filepath.Join(root, "build", "src")},
		{name: "dot segments inside root", clone: Clone{URL: "x", Dir: "../src"}, workdir: "build", want: filepath.Join(root, "src")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.clone.destination(ec, tt.workdir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	rejected := []struct {
		name    string
		clone   Clone
		workdir string
	}{
		{name: "absolute dir", clone: Clone{URL: "x", Dir: "/tmp/src"}},
		{name: "dir escapes root", clone: Clone{URL: "x", Dir: "../../../../../etc/evil"}},
		{name: "workdir outside root", clone: Clone{URL: "x", Dir: "src"}, workdir: "/opt"},
		{name: "workdir escapes root", clone: Clone{URL: "x", Dir: "src"}, workdir: "../.."},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.clone.destination(ec, tt.workdir)
			assert.ErrorIs(t, err, execution.ErrOutsideRoot)
		})
	}
}

func TestCloneDestinationMapsThroughContext(t *testing.T) {
	ec := &mappingContext{}

	got, err := Clone{URL: "x", Dir: "pkg"}.destination(ec, "/workspace/src")
	require.NoError(t, err)
	assert.Equal(t, "/host/ws/src/pkg", got)
	assert.Equal(t, []string{"/workspace/src/pkg"}, ec.asked)
}

func TestCloneOutsideContextIsFailedStep(t *testing.T) {
	repoDir, _ := newTestRepo(t)
	r, base := newTestRunner(t)

	result, err := r.Execute(t.Context(), "mypkg", CommandSequence{
		{Name: "checkout", Action: Clone{URL: repoDir, Dir: "../escaped"}},
		{Name: "never", Action: Command{Run: "true"}},
	}, execution.Spec{Cleanup: true})
	require.NoError(t, err)

	assert.False(t, result.ClientInfo.Success)
	require.Len(t, result.Steps, 1)
	msg, _ := result.Steps[0].Fields.Get("errors")
	assert.Contains(t, msg, execution.ErrOutsideRoot.Error())

	_, err = os.Stat(filepath.Join(base, "escaped"))
	assert.True(t, os.IsNotExist(err))
}

func TestReferenceName(t *testing.T) {
	assert.Equal(t, "refs/heads/main", referenceName("main").String())
	assert.Equal(t, "refs/tags/v1.0.0", referenceName("refs/tags/v1.0.0").String())
}
