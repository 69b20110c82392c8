// Package xdg places the portfolio cache and configuration under the XDG base
// directories.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "portfolio"

// Layout locates the files portfolio keeps between runs.
type Layout struct {
	configHome string
	cacheHome  string
}

// NewLayout reads XDG_CONFIG_HOME and XDG_CACHE_HOME, falling back to
// ~/.config and ~/.cache.
func NewLayout() *Layout {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = os.TempDir()
		}
	}

	l := &Layout{
		configHome: os.Getenv("XDG_CONFIG_HOME"),
		cacheHome:  os.Getenv("XDG_CACHE_HOME"),
	}
	if l.configHome == "" {
		l.configHome = filepath.Join(homeDir, ".config")
	}
	if l.cacheHome == "" {
		l.cacheHome = filepath.Join(homeDir, ".cache")
	}
	return l
}

// CacheDir is the default root of downloaded runtime tables.
func (l *Layout) CacheDir() string {
	return filepath.Join(l.cacheHome, appName)
}

// NamesFile is the display name table read when none is given explicitly.
func (l *Layout) NamesFile() string {
	return filepath.Join(l.configHome, appName, "names.toml")
}

// StoreDirs returns the directories of completed and in-progress downloads
// under a cache root.
func StoreDirs(cacheDir string) (files, tmp string) {
	return filepath.Join(cacheDir, "files"), filepath.Join(cacheDir, "tmp")
}
