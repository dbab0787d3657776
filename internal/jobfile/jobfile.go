package jobfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cruciblehq/barn/internal/build"
	"github.com/cruciblehq/barn/internal/execution"
)

// Contents of a job file.
type File struct {
	Name         string   `yaml:"name" toml:"name"`
	Kind         string   `yaml:"kind" toml:"kind"`
	Tags         []string `yaml:"tags" toml:"tags"`
	Dependencies []string `yaml:"dependencies" toml:"dependencies"`
	Steps        []Step   `yaml:"steps" toml:"steps"`
}

// One step of a job file.
type Step struct {
	Name              string            `yaml:"name" toml:"name"`
	Run               string            `yaml:"run" toml:"run"`
	Clone             *Clone            `yaml:"clone" toml:"clone"`
	Shell             string            `yaml:"shell" toml:"shell"`
	Workdir           string            `yaml:"workdir" toml:"workdir"`
	Env               map[string]string `yaml:"env" toml:"env"`
	ContinueOnFailure bool              `yaml:"continue_on_failure" toml:"continue_on_failure"`
}

// Repository checkout performed by a clone step.
type Clone struct {
	URL string `yaml:"url" toml:"url"`
	Ref string `yaml:"ref" toml:"ref"`
	Dir string `yaml:"dir" toml:"dir"`
}

// A job loaded from a file.
type Job struct {
	Path string
	File File
}

// Reads, decodes and validates the job file at path. The format is chosen by
// extension: .yaml and .yml for YAML, .toml for TOML.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Job{Path: path, File: *f}, nil
}

// Decodes and validates job file contents in the format named by ext.
func Parse(data []byte, ext string) (*File, error) {
	var f File

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}

	if err := applyPreset(&f); err != nil {
		return nil, err
	}
	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (j *Job) Name() string {
	return j.File.Name
}

func (j *Job) Tags() []string {
	return j.File.Tags
}

func (j *Job) Configure() ([]execution.Dependency, error) {
	deps := make([]execution.Dependency, 0, len(j.File.Dependencies))
	for _, d := range j.File.Dependencies {
		deps = append(deps, execution.Dependency(d))
	}
	return deps, nil
}

func (j *Job) DefineCommands() (build.CommandSequence, error) {
	cmds := make(build.CommandSequence, 0, len(j.File.Steps))
	for _, s := range j.File.Steps {
		cmds = append(cmds, s.toBuild())
	}
	return cmds, nil
}

// Converts the step into its build representation.
func (s Step) toBuild() build.Step {
	step := build.Step{
		Name:              s.Name,
		Shell:             s.Shell,
		Workdir:           s.Workdir,
		Env:               s.Env,
		ContinueOnFailure: s.ContinueOnFailure,
	}

	switch {
	case s.Run != "":
		step.Action = build.Command{Run: s.Run}
	case s.Clone != nil:
		step.Action = build.Clone{URL: s.Clone.URL, Ref: s.Clone.Ref, Dir: s.Clone.Dir}
	}

	return step
}

// Reports whether the step performs work rather than only setting modifiers.
func (s Step) isAction() bool {
	return s.Run != "" || s.Clone != nil
}
