package jobfile

import (
	"fmt"
	"strings"
)

// Checks the structural rules of a decoded job file.
func Validate(f *File) error {
	var errs []string

	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "name: is required")
	}

	for i, tag := range f.Tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, fmt.Sprintf("tags[%d]: must not be empty", i))
		}
	}

	for i, dep := range f.Dependencies {
		if strings.TrimSpace(dep) == "" {
			errs = append(errs, fmt.Sprintf("dependencies[%d]: must not be empty", i))
		}
	}

	for i, s := range f.Steps {
		spath := fmt.Sprintf("steps[%d]", i)

		if s.Run != "" && s.Clone != nil {
			errs = append(errs, fmt.Sprintf("%s: run and clone are mutually exclusive", spath))
		}
		if s.isAction() && s.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: name is required", spath))
		}
		if s.Clone != nil && s.Clone.URL == "" {
			errs = append(errs, fmt.Sprintf("%s: clone.url is required", spath))
		}
		if !s.isAction() && s.Name != "" {
			errs = append(errs, fmt.Sprintf("%s: step %q has no run or clone", spath, s.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalid, strings.Join(errs, "\n  "))
	}
	return nil
}
