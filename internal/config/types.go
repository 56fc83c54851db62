// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/pakextract/internal/extract"
	"github.com/invowk/pakextract/internal/locale"
	"github.com/invowk/pakextract/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidMinioConfig is returned when the MinIO interceptor settings are inconsistent.
	ErrInvalidMinioConfig = errors.New("invalid minio interceptor config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidMinioConfigError describes one inconsistency in the MinIO settings.
	InvalidMinioConfigError struct {
		Reason string
	}

	// InvalidConfigError is returned when a config section has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		Section     string
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// AppDataDir is the writable directory that receives extracted files.
		AppDataDir types.FilesystemPath `json:"app_data_dir" mapstructure:"app_data_dir"`
		// PackagePath points at the installed package (directory, .zip or .apk).
		PackagePath types.FilesystemPath `json:"package_path" mapstructure:"package_path"`
		// Assets is the ordered required set. When empty it is derived from Locales.
		Assets []extract.AssetName `json:"assets" mapstructure:"assets"`
		// Locales configures locale-driven asset selection.
		Locales LocalesConfig `json:"locales" mapstructure:"locales"`
		// Interceptor configures alternate asset sources.
		Interceptor InterceptorConfig `json:"interceptor" mapstructure:"interceptor"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// LocalesConfig selects locale resource files.
	LocalesConfig struct {
		// Available lists the locale tags bundled in the package. When empty the
		// package's own *.pak assets are used.
		Available []string `json:"available" mapstructure:"available"`
		// Fallback is extracted when no available locale matches the active language.
		Fallback string `json:"fallback" mapstructure:"fallback"`
		// Language overrides the language detected from the environment.
		Language string `json:"language" mapstructure:"language"`
	}

	// InterceptorConfig configures alternate asset sources.
	InterceptorConfig struct {
		Minio MinioConfig `json:"minio" mapstructure:"minio"`
	}

	// MinioConfig serves selected assets from an S3-compatible bucket.
	MinioConfig struct {
		Endpoint        string              `json:"endpoint" mapstructure:"endpoint"`
		AccessKeyID     string              `json:"access_key_id" mapstructure:"access_key_id"`
		SecretAccessKey string              `json:"secret_access_key" mapstructure:"secret_access_key"`
		UseSSL          bool                `json:"use_ssl" mapstructure:"use_ssl"`
		Bucket          string              `json:"bucket" mapstructure:"bucket"`
		Prefix          string              `json:"prefix" mapstructure:"prefix"`
		Assets          []extract.AssetName `json:"assets" mapstructure:"assets"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
// AppDataDir is filled in at load time from DataDir.
func DefaultConfig() *Config {
	return &Config{
		Locales: LocalesConfig{Fallback: locale.Fallback},
		UI:      UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidMinioConfigError) Error() string {
	return "interceptor.minio: " + e.Reason
}

// Unwrap returns ErrInvalidMinioConfig for errors.Is() compatibility.
func (e *InvalidMinioConfigError) Unwrap() error { return ErrInvalidMinioConfig }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("invalid %s config: %s", e.Section, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Enabled reports whether the MinIO interceptor is configured.
func (c MinioConfig) Enabled() bool { return c.Endpoint != "" }

// IsValid returns whether the MinIO settings are consistent.
func (c MinioConfig) IsValid() (bool, []error) {
	var errs []error
	if !c.Enabled() {
		if len(c.Assets) > 0 {
			errs = append(errs, &InvalidMinioConfigError{Reason: "assets are listed but no endpoint is set"})
		}
		return len(errs) == 0, errs
	}
	if c.Bucket == "" {
		errs = append(errs, &InvalidMinioConfigError{Reason: "bucket is required when an endpoint is set"})
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		errs = append(errs, &InvalidMinioConfigError{Reason: "access_key_id and secret_access_key must be set together"})
	}
	for _, a := range c.Assets {
		if ok, fieldErrs := a.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	return c.ColorScheme.IsValid()
}

// IsValid returns whether the LocalesConfig has valid fields.
func (c LocalesConfig) IsValid() (bool, []error) {
	if err := locale.Validate(c.Available, c.Fallback); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// IsValid returns whether the Config has valid fields. Each failing section is
// reported as its own InvalidConfigError.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	section := func(name string, ok bool, fieldErrs []error) {
		if !ok {
			errs = append(errs, &InvalidConfigError{Section: name, FieldErrors: fieldErrs})
		}
	}

	var pathErrs []error
	if ok, fieldErrs := c.AppDataDir.IsValid(); !ok {
		pathErrs = append(pathErrs, fieldErrs...)
	}
	if c.PackagePath.IsSet() {
		if ok, fieldErrs := c.PackagePath.IsValid(); !ok {
			pathErrs = append(pathErrs, fieldErrs...)
		}
	}
	section("paths", len(pathErrs) == 0, pathErrs)

	var assetErrs []error
	for _, a := range c.Assets {
		if ok, fieldErrs := a.IsValid(); !ok {
			assetErrs = append(assetErrs, fieldErrs...)
		}
	}
	section("assets", len(assetErrs) == 0, assetErrs)

	ok, fieldErrs := c.Locales.IsValid()
	section("locales", ok, fieldErrs)
	ok, fieldErrs = c.Interceptor.Minio.IsValid()
	section("interceptor", ok, fieldErrs)
	ok, fieldErrs = c.UI.IsValid()
	section("ui", ok, fieldErrs)

	return len(errs) == 0, errs
}
