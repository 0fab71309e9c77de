package store

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "stratlife"

// dirSource is one place a data directory may live: a base taken from an
// env var, or from the home directory when env is empty.
type dirSource struct {
	env  string
	path []string
}

// dataDirSources lists, per OS, where to put the data directory in order of
// preference.
var dataDirSources = map[string][]dirSource{
	"darwin": {
		{path: []string{"Library", "Application Support"}},
	},
	"windows": {
		{env: "LOCALAPPDATA"},
		{env: "APPDATA"},
		{},
	},
	"": {
		{env: "XDG_DATA_HOME"},
		{path: []string{".local", "share"}},
	},
}

// DefaultDataDir returns where goals are kept when no directory is
// configured: Application Support on macOS, LOCALAPPDATA or APPDATA on
// Windows, and XDG_DATA_HOME or ~/.local/share elsewhere.
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	sources, ok := dataDirSources[goos]
	if !ok {
		sources = dataDirSources[""]
	}
	home, _ := os.UserHomeDir()
	for _, src := range sources {
		base := home
		if src.env != "" {
			if base = os.Getenv(src.env); base == "" {
				continue
			}
		}
		return filepath.Join(append(append([]string{base}, src.path...), appDirName)...)
	}
	return filepath.Join(home, appDirName)
}
