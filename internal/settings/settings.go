package settings

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cruciblehq/barn/internal/logfields"
	"github.com/cruciblehq/barn/internal/paths"
)

// Execution context kinds.
const (
	ContextLocal     = "local"
	ContextContainer = "container"
)

// Environment variables overriding settings file values.
const (
	EnvServerURL = "BARN_SERVER_URL"
	EnvContext   = "BARN_CONTEXT"
)

// Files probed for environment variables, in order.
var envFiles = []string{".env", ".env.local"}

// Persistent configuration.
type Settings struct {
	ServerURL string  `yaml:"server_url"`
	Context   Context `yaml:"context"`
	History   History `yaml:"history"`
	Archive   Archive `yaml:"archive"`
	Metrics   Metrics `yaml:"metrics"`
}

// Where build steps run.
type Context struct {
	Kind        string     `yaml:"kind"`         // local or container.
	BaseDir     string     `yaml:"base_dir"`     // Workspace parent directory. Empty uses the XDG cache.
	Installer   []string   `yaml:"installer"`    // Dependency installer command.
	Image       string     `yaml:"image"`        // Container image or OCI archive path.
	Platform    string     `yaml:"platform"`     // Container platform. Empty uses the host's.
	SystemPaths []string   `yaml:"system_paths"` // Host paths mounted read-only when system packages are visible.
	Containerd  Containerd `yaml:"containerd"`
}

// Connection to the containerd daemon.
type Containerd struct {
	Address   string `yaml:"address"`
	Namespace string `yaml:"namespace"`
}

// Local invocation history.
type History struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Result archival to blob storage. Disabled when Bucket is empty.
type Archive struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// Prometheus textfile export. Disabled when Textfile is empty.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Returns the built-in defaults.
func Defaults() *Settings {
	return &Settings{
		Context: Context{
			Kind:  ContextLocal,
			Image: "docker.io/library/golang:latest",
			SystemPaths: []string{
				"/usr/local/go",
			},
			Containerd: Containerd{
				Address:   "/run/containerd/containerd.sock",
				Namespace: "barn",
			},
		},
		History: History{
			Path: paths.HistoryFile(),
		},
		Archive: Archive{
			Prefix: "results",
		},
	}
}

// Loads settings from path, or from [paths.ConfigFile] when path is empty.
//
// A missing file at the default location yields the defaults; a missing file
// that was asked for explicitly is an error.
func Load(path string) (*Settings, error) {
	loadEnvFiles()

	explicit := path != ""
	if !explicit {
		path = paths.ConfigFile()
	}

	s := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := s.decode(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		slog.Debug("loaded settings", logfields.Path(path))
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		slog.Debug("no settings file, using defaults", logfields.Path(path))
	default:
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	s.applyEnv()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Decodes YAML over the current values after expanding environment
// references. A file without any document leaves the values unchanged.
func (s *Settings) decode(data []byte) error {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return nil
}

// Applies environment variable overrides.
func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		s.ServerURL = v
	}
	if v := os.Getenv(EnvContext); v != "" {
		s.Context.Kind = v
	}
}

// Checks the settings for values that cannot work.
func (s *Settings) Validate() error {
	var errs []string

	switch s.Context.Kind {
	case ContextLocal:
	case ContextContainer:
		if s.Context.Image == "" {
			errs = append(errs, "context.image: required for container contexts")
		}
		if s.Context.Containerd.Address == "" {
			errs = append(errs, "context.containerd.address: required for container contexts")
		}
	default:
		errs = append(errs, fmt.Sprintf("context.kind: unknown kind %q (supported: %s, %s)", s.Context.Kind, ContextLocal, ContextContainer))
	}

	if s.History.Enabled && s.History.Path == "" {
		errs = append(errs, "history.path: required when history is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalid, strings.Join(errs, "\n  "))
	}
	return nil
}

// Loads the first env file found. Existing environment variables are kept.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("failed to load env file", logfields.Path(name), logfields.Error(err))
			continue
		}
		slog.Debug("loaded environment variables", logfields.Path(name))
		return
	}
}
