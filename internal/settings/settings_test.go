package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	t.Setenv(EnvContext, "")
	t.Chdir(t.TempDir())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("BARN_TEST_BUCKET", "file:///srv/results")

	path := writeSettings(t, `
server_url: http://ci.example.com/pony
context:
  kind: container
  image: golang:1.25
  installer: [go, install, -v]
history:
  enabled: true
archive:
  bucket: ${BARN_TEST_BUCKET}
metrics:
  textfile: /var/lib/node_exporter/barn.prom
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://ci.example.com/pony", s.ServerURL)
	assert.Equal(t, ContextContainer, s.Context.Kind)
	assert.Equal(t, "golang:1.25", s.Context.Image)
	assert.Equal(t, []string{"go", "install", "-v"}, s.Context.Installer)
	assert.Equal(t, "/run/containerd/containerd.sock", s.Context.Containerd.Address, "default kept")
	assert.True(t, s.History.Enabled)
	assert.NotEmpty(t, s.History.Path)
	assert.Equal(t, "file:///srv/results", s.Archive.Bucket)
	assert.Equal(t, "results", s.Archive.Prefix)
	assert.Equal(t, "/var/lib/node_exporter/barn.prom", s.Metrics.Textfile)
}

func TestLoadDefaultsWhenDefaultFileMissing(t *testing.T) {
	clearEnv(t)

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ContextLocal, s.Context.Kind)
	assert.Empty(t, s.ServerURL)
	assert.False(t, s.History.Enabled)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrRead)
}

func TestLoadEmptyFile(t *testing.T) {
	clearEnv(t)

	s, err := Load(writeSettings(t, "# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, ContextLocal, s.Context.Kind)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvServerURL, "nats://localhost:4222")
	t.Setenv(EnvContext, ContextContainer)

	s, err := Load(writeSettings(t, "server_url: http://ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "nats://localhost:4222", s.ServerURL)
	assert.Equal(t, ContextContainer, s.Context.Kind)
}

func TestEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvServerURL)
	require.NoError(t, os.WriteFile(".env", []byte(EnvServerURL+"=http://from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv(EnvServerURL) })

	s, err := Load(writeSettings(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv", s.ServerURL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{name: "bad yaml", content: "server_url: [", wantErr: ErrParse},
		{name: "unknown field", content: "serverurl: x", wantErr: ErrParse},
		{name: "unknown kind", content: "context:\n  kind: vm", wantErr: ErrInvalid, wantMsg: "unknown kind"},
		{name: "container without image", content: "context:\n  kind: container\n  image: \"\"", wantErr: ErrInvalid, wantMsg: "context.image"},
		{name: "history without path", content: "history:\n  enabled: true\n  path: \"\"", wantErr: ErrInvalid, wantMsg: "history.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			_, err := Load(writeSettings(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
