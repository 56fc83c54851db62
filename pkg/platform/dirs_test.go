// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"path/filepath"
	"testing"
)

func testResolver(goos string, env map[string]string, home string) Resolver {
	return Resolver{
		GOOS:   goos,
		Getenv: func(key string) string { return env[key] },
		Home: func() (string, error) {
			if home == "" {
				return "", errors.New("$HOME is not defined")
			}
			return home, nil
		},
	}
}

func TestResolverDirs(t *testing.T) {
	t.Parallel()

	home := filepath.Join("home", "ana")

	tests := []struct {
		name       string
		goos       string
		env        map[string]string
		wantConfig string
		wantData   string
	}{
		{
			name:       "linux defaults",
			goos:       Linux,
			wantConfig: filepath.Join(home, ".config", "app"),
			wantData:   filepath.Join(home, ".local", "share", "app"),
		},
		{
			name:       "linux xdg",
			goos:       Linux,
			env:        map[string]string{"XDG_CONFIG_HOME": "/xdg/config", "XDG_DATA_HOME": "/xdg/data"},
			wantConfig: filepath.Join("/xdg/config", "app"),
			wantData:   filepath.Join("/xdg/data", "app"),
		},
		{
			name:       "darwin",
			goos:       Darwin,
			wantConfig: filepath.Join(home, "Library", "Application Support", "app"),
			wantData:   filepath.Join(home, "Library", "Application Support", "app"),
		},
		{
			name:       "windows",
			goos:       Windows,
			env:        map[string]string{"APPDATA": `C:\Users\ana\AppData\Roaming`, "LOCALAPPDATA": `C:\Users\ana\AppData\Local`},
			wantConfig: filepath.Join(`C:\Users\ana\AppData\Roaming`, "app"),
			wantData:   filepath.Join(`C:\Users\ana\AppData\Local`, "app"),
		},
		{
			name:       "windows profile fallback",
			goos:       Windows,
			env:        map[string]string{"USERPROFILE": "profile"},
			wantConfig: filepath.Join("profile", "AppData", "Roaming", "app"),
			wantData:   filepath.Join("profile", "AppData", "Local", "app"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := testResolver(tt.goos, tt.env, home)
			cfg, err := r.ConfigDir("app")
			if err != nil || cfg != tt.wantConfig {
				t.Errorf("ConfigDir() = %q, %v; want %q", cfg, err, tt.wantConfig)
			}
			data, err := r.DataDir("app")
			if err != nil || data != tt.wantData {
				t.Errorf("DataDir() = %q, %v; want %q", data, err, tt.wantData)
			}
		})
	}
}

func TestResolverWithoutHome(t *testing.T) {
	t.Parallel()

	r := testResolver(Linux, nil, "")
	if _, err := r.ConfigDir("app"); !errors.Is(err, ErrNoHome) {
		t.Errorf("ConfigDir() error = %v, want ErrNoHome", err)
	}
	if _, err := r.DataDir("app"); !errors.Is(err, ErrNoHome) {
		t.Errorf("DataDir() error = %v, want ErrNoHome", err)
	}

	withXDG := testResolver(Linux, map[string]string{"XDG_DATA_HOME": "/data"}, "")
	if _, err := withXDG.DataDir("app"); err != nil {
		t.Errorf("DataDir() with XDG_DATA_HOME = %v, want no error", err)
	}
}
