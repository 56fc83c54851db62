// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNoHome is returned when a directory depends on a home directory that cannot
// be determined.
var ErrNoHome = errors.New("home directory not found")

type (
	// Env reads environment variables. os.Getenv satisfies it.
	Env func(key string) string

	// Resolver computes user directories for one operating system.
	Resolver struct {
		// GOOS is the target operating system, usually runtime.GOOS.
		GOOS string
		// Getenv reads the environment.
		Getenv Env
		// Home returns the user's home directory.
		Home func() (string, error)
	}
)

// ConfigDir returns the directory for app's configuration:
//   - Windows: %APPDATA%\app
//   - macOS: ~/Library/Application Support/app
//   - others: $XDG_CONFIG_HOME/app, defaulting to ~/.config/app
func (r Resolver) ConfigDir(app string) (string, error) {
	switch r.GOOS {
	case Windows:
		if dir := r.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, app), nil
		}
		return filepath.Join(r.Getenv("USERPROFILE"), "AppData", "Roaming", app), nil
	case Darwin:
		return r.underHome(app, "Library", "Application Support")
	default:
		if dir := r.Getenv("XDG_CONFIG_HOME"); dir != "" {
			return filepath.Join(dir, app), nil
		}
		return r.underHome(app, ".config")
	}
}

// DataDir returns the directory for app's writable data:
//   - Windows: %LOCALAPPDATA%\app
//   - macOS: ~/Library/Application Support/app
//   - others: $XDG_DATA_HOME/app, defaulting to ~/.local/share/app
func (r Resolver) DataDir(app string) (string, error) {
	switch r.GOOS {
	case Windows:
		if dir := r.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, app), nil
		}
		return filepath.Join(r.Getenv("USERPROFILE"), "AppData", "Local", app), nil
	case Darwin:
		return r.underHome(app, "Library", "Application Support")
	default:
		if dir := r.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, app), nil
		}
		return r.underHome(app, ".local", "share")
	}
}

func (r Resolver) underHome(app string, elems ...string) (string, error) {
	home, err := r.Home()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: %w", ErrNoHome, errOrEmpty(err))
	}
	return filepath.Join(append(append([]string{home}, elems...), app)...), nil
}

func errOrEmpty(err error) error {
	if err != nil {
		return err
	}
	return errors.New("empty home directory")
}
