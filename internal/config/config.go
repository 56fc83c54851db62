// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/invowk/pakextract/internal/issue"
	"github.com/invowk/pakextract/pkg/platform"
	"github.com/invowk/pakextract/pkg/types"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "pakextract"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides, e.g. PAKEXTRACT_APP_DATA_DIR.
	EnvPrefix = "PAKEXTRACT"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the pakextract configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	dir, err := userDirs().ConfigDir(AppName)
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return dir, nil
}

// DataDir returns the default app data directory: %LOCALAPPDATA% on Windows,
// ~/Library/Application Support on macOS and $XDG_DATA_HOME (defaulting to
// ~/.local/share) elsewhere.
func DataDir() (string, error) {
	if dataDirOverride != "" {
		return dataDirOverride, nil
	}
	dir, err := userDirs().DataDir(AppName)
	if err != nil {
		return "", fmt.Errorf("failed to get data directory: %w", err)
	}
	return dir, nil
}

func userDirs() platform.Resolver {
	return platform.Resolver{GOOS: runtime.GOOS, Getenv: os.Getenv, Home: os.UserHomeDir}
}

// resolveConfigPath returns the config file to load: the explicit file, then
// <config dir>/config.cue, then ./config.cue. It returns "" when none exists.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'pakextract config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(); err != nil {
			return "", err
		}
	}

	for _, candidate := range []string{
		filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
		ConfigFileName + "." + ConfigFileExt,
	} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// newViper creates a Viper instance with every key defaulted so that environment
// overrides are honored by Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("app_data_dir", defaults.AppDataDir)
	v.SetDefault("package_path", defaults.PackagePath)
	v.SetDefault("assets", defaults.Assets)
	v.SetDefault("locales.available", defaults.Locales.Available)
	v.SetDefault("locales.fallback", defaults.Locales.Fallback)
	v.SetDefault("locales.language", defaults.Locales.Language)
	v.SetDefault("interceptor.minio.endpoint", "")
	v.SetDefault("interceptor.minio.access_key_id", "")
	v.SetDefault("interceptor.minio.secret_access_key", "")
	v.SetDefault("interceptor.minio.use_ssl", false)
	v.SetDefault("interceptor.minio.bucket", "")
	v.SetDefault("interceptor.minio.prefix", "")
	v.SetDefault("interceptor.minio.assets", []string(nil))
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. It returns the resolved file path, "" for defaults.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'pakextract config dump' to see every supported key").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := finalize(&cfg, opts.Environ); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("resolve configuration paths").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Make sure every variable referenced in app_data_dir and package_path is set").
			Wrap(err).
			BuildError()
	}

	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Include the fallback locale in locales.available").
			WithSuggestion("Set interceptor.minio.bucket whenever interceptor.minio.endpoint is set").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// finalize expands path values and fills in the default app data directory.
func finalize(cfg *Config, environ []string) error {
	if environ == nil {
		environ = os.Environ()
	}

	if cfg.AppDataDir == "" {
		dir, err := DataDir()
		if err != nil {
			return err
		}
		cfg.AppDataDir = types.FilesystemPath(dir)
	}

	appData, err := ExpandPath(string(cfg.AppDataDir), environ)
	if err != nil {
		return err
	}
	cfg.AppDataDir = types.FilesystemPath(appData)

	pkgPath, err := ExpandPath(string(cfg.PackagePath), environ)
	if err != nil {
		return err
	}
	cfg.PackagePath = types.FilesystemPath(pkgPath)

	if cfg.Locales.Fallback == "" {
		cfg.Locales.Fallback = DefaultConfig().Locales.Fallback
	}
	return nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Config fields are optional, so validation uses Concrete(false) and the result is
// decoded to a map that Viper can merge over its defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkFileSize(data, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file into dir (the platform config
// directory when dir is empty) unless one exists. It returns the file path and
// whether it was created.
func CreateDefaultConfig(dir string) (string, bool, error) {
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", false, err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration.
// Empty optional values are written as comments so the file documents every key.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// pakextract configuration file\n")
	sb.WriteString("// Paths may reference $VARS and start with ~.\n\n")

	optional := func(indent, key, value string) {
		if value == "" {
			fmt.Fprintf(&sb, "%s// %s: \"\"\n", indent, key)
			return
		}
		fmt.Fprintf(&sb, "%s%s: %q\n", indent, key, value)
	}
	list := func(indent, key string, values []string) {
		if len(values) == 0 {
			fmt.Fprintf(&sb, "%s// %s: []\n", indent, key)
			return
		}
		fmt.Fprintf(&sb, "%s%s: [\n", indent, key)
		for _, v := range values {
			fmt.Fprintf(&sb, "%s\t%q,\n", indent, v)
		}
		fmt.Fprintf(&sb, "%s]\n", indent)
	}

	optional("", "app_data_dir", string(cfg.AppDataDir))
	optional("", "package_path", string(cfg.PackagePath))
	list("", "assets", assetStrings(cfg.Assets))

	sb.WriteString("\nlocales: {\n")
	list("\t", "available", cfg.Locales.Available)
	optional("\t", "fallback", cfg.Locales.Fallback)
	optional("\t", "language", cfg.Locales.Language)
	sb.WriteString("}\n")

	m := cfg.Interceptor.Minio
	sb.WriteString("\ninterceptor: minio: {\n")
	optional("\t", "endpoint", m.Endpoint)
	optional("\t", "access_key_id", m.AccessKeyID)
	optional("\t", "secret_access_key", m.SecretAccessKey)
	fmt.Fprintf(&sb, "\tuse_ssl: %v\n", m.UseSSL)
	optional("\t", "bucket", m.Bucket)
	optional("\t", "prefix", m.Prefix)
	list("\t", "assets", assetStrings(m.Assets))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
