package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	programName = "barn"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755
)

// Directory holding the settings file.
//
//	Linux:   $XDG_CONFIG_HOME/barn
//	macOS:   ~/Library/Application Support/barn
func Config() string {
	return filepath.Join(xdg.ConfigHome, programName)
}

// Default path to the settings file.
func ConfigFile() string {
	return filepath.Join(Config(), "config.yaml")
}

// Directory for persistent state such as the build history.
//
//	Linux:   $XDG_DATA_HOME/barn
//	macOS:   ~/Library/Application Support/barn
func Data() string {
	return filepath.Join(xdg.DataHome, programName)
}

// Default path to the history database.
func HistoryFile() string {
	return filepath.Join(Data(), "history.db")
}

// Directory under which execution-context workspaces are created.
//
//	Linux:   $XDG_CACHE_HOME/barn/workspaces
//	macOS:   ~/Library/Caches/barn/workspaces
func Workspaces() string {
	return filepath.Join(xdg.CacheHome, programName, "workspaces")
}
