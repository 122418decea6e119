package cli

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ardnew/lexenv/pkg"
)

// configBase is the base name of the configuration file.
const configBase = "config.yaml"

// defaultDirMode is the permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// configDir returns the per-user configuration directory for lexenv,
// falling back to a dot directory under the home directory, then the
// working directory.
//
//nolint:gochecknoglobals
var configDir = sync.OnceValue(
	func() string {
		dir, err := os.UserConfigDir()
		if err == nil {
			return filepath.Join(dir, pkg.Name)
		}

		dir, err = os.UserHomeDir()
		if err == nil {
			return filepath.Join(dir, ".config", pkg.Name)
		}

		dir, err = os.Getwd()
		if err != nil {
			dir = "."
		}

		return filepath.Join(dir, "."+pkg.Name)
	},
)

// cacheDir returns the per-user cache directory for lexenv.
//
//nolint:gochecknoglobals
var cacheDir = sync.OnceValue(
	func() string {
		dir, err := os.UserCacheDir()
		if err != nil {
			return filepath.Join(configDir(), "cache")
		}

		return filepath.Join(dir, pkg.Name)
	},
)

// configPath returns the full path of the configuration file.
func configPath() string {
	return filepath.Join(configDir(), configBase)
}

// mkdirAllRequired creates the directories the CLI expects to exist.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		err := os.MkdirAll(dir, defaultDirMode)
		if err != nil {
			return err
		}
	}

	return nil
}
