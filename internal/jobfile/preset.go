package jobfile

import (
	"fmt"
	"slices"
)

// Preset applied by the "go" kind.
const (
	kindGo      = "go"
	goModuleTag = "go_module"
)

// Default steps of the go preset.
var goSteps = []Step{
	{Name: "vet", Run: "go vet ./..."},
	{Name: "build", Run: "go build ./..."},
	{Name: "test", Run: "go test ./..."},
}

// Fills defaults from the file's kind.
func applyPreset(f *File) error {
	switch f.Kind {
	case "":
		return nil
	case kindGo:
		if !slices.ContainsFunc(f.Steps, Step.isAction) {
			f.Steps = append(f.Steps, goSteps...)
		}
		if !slices.Contains(f.Tags, goModuleTag) {
			f.Tags = append(f.Tags, goModuleTag)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q (supported: %s)", ErrInvalid, f.Kind, kindGo)
	}
}
