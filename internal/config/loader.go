package config

import (
	"os"
	"path/filepath"
)

// Loader resolves and reads the configuration file.
type Loader struct {
	Version      string // build version; "dev" also searches the working directory
	OverridePath string // explicit path that wins over the search order
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load parses the first configuration file found, or returns defaults when
// none exists.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// GetConfigPath returns the path of the first configuration file that
// exists, or an empty string. The override path is checked first, then a
// .snipmarkrc in the working directory for dev builds, then the XDG config
// directory.
func (l *Loader) GetConfigPath() string {
	var candidates []string
	if l.OverridePath != "" {
		candidates = append(candidates, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(wd, ".snipmarkrc"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "snipmark", "config.rc"),
			filepath.Join(home, ".config", "snipmark", "snipmark.rc"),
		)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
