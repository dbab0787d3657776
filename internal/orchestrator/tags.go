package orchestrator

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Builder-kind tag present on every job.
const BaseBuilderTag = "base_builder"

// Returns the runtime identifier tag for the running toolchain, e.g. "go1.25".
func RuntimeTag() string {
	return runtimeTag(runtime.Version())
}

// Converts a toolchain version string such as "go1.25.1" into "go1.25".
// Release candidates map to their release line. Development toolchains and
// unparseable versions yield "godevel".
func runtimeTag(version string) string {
	numeric := strings.TrimPrefix(version, "go")
	if i := strings.IndexFunc(numeric, func(r rune) bool { return r != '.' && (r < '0' || r > '9') }); i >= 0 {
		numeric = numeric[:i]
	}

	v, err := semver.NewVersion(numeric)
	if err != nil {
		return "godevel"
	}
	return fmt.Sprintf("go%d.%d", v.Major(), v.Minor())
}

// Returns the base tags followed by the job's own tags.
func DeriveTags(job Job) []string {
	return append([]string{RuntimeTag(), BaseBuilderTag}, slices.Clone(job.Tags())...)
}
