package paths

import (
	"path/filepath"
	"testing"
)

func TestPathsAreScopedToProgram(t *testing.T) {
	for name, p := range map[string]string{
		"config":     Config(),
		"data":       Data(),
		"workspaces": filepath.Dir(Workspaces()),
	} {
		if filepath.Base(p) != programName {
			t.Errorf("%s = %q, want a %q subdirectory", name, p, programName)
		}
	}
}

func TestFilesLiveInTheirDirectories(t *testing.T) {
	if filepath.Dir(ConfigFile()) != Config() {
		t.Fatalf("ConfigFile() = %q, not under %q", ConfigFile(), Config())
	}
	if filepath.Dir(HistoryFile()) != Data() {
		t.Fatalf("HistoryFile() = %q, not under %q", HistoryFile(), Data())
	}
}
