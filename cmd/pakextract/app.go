// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/invowk/pakextract/internal/config"
	"github.com/invowk/pakextract/internal/core/jobbase"
	"github.com/invowk/pakextract/internal/extract"
	"github.com/invowk/pakextract/internal/interceptor/miniosrc"
	"github.com/invowk/pakextract/internal/issue"
	"github.com/invowk/pakextract/internal/locale"
	"github.com/invowk/pakextract/internal/mainloop"
	"github.com/invowk/pakextract/internal/pkgfile"
	"github.com/invowk/pakextract/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler receives
	// an App reference and builds its extraction session through it.
	App struct {
		Config    config.Provider
		configDir string
		getenv    locale.Env
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// ConfigDir overrides the platform config directory.
		ConfigDir string
		// Getenv reads the locale environment. Defaults to os.Getenv.
		Getenv locale.Env
		Stdout io.Writer
		Stderr io.Writer
	}

	// sessionRequest captures the CLI inputs that shape an extraction session.
	sessionRequest struct {
		// ConfigPath is the explicit --config flag value.
		ConfigPath string
		// PackagePath overrides package_path.
		PackagePath string
		// AppDataDir overrides app_data_dir.
		AppDataDir string
		// Assets overrides the required set.
		Assets []string
		// Language overrides the detected language.
		Language string
		// Verbose enables debug logging.
		Verbose bool
		// SkipInterceptor leaves the MinIO interceptor unconnected. Read-only
		// commands never open a stream.
		SkipInterceptor bool
	}

	// session is one configured extraction job and the resources it holds.
	session struct {
		cfg       *config.Config
		pkg       *pkgfile.Package
		plan      extract.Plan
		layout    extract.Layout
		language  string
		available []string
		loop      *mainloop.Loop
		job       *extract.Job
		logger    *log.Logger
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}

	return &App{
		Config:    deps.Config,
		configDir: deps.ConfigDir,
		getenv:    deps.Getenv,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
}

func (a *App) loadOptions(configPath string) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: configPath, ConfigDirPath: a.configDir}
}

// loadConfig loads configuration and applies the flag overrides.
func (a *App) loadConfig(ctx context.Context, req sessionRequest) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions(req.ConfigPath))
	if err != nil {
		return nil, err
	}

	if req.PackagePath != "" {
		cfg.PackagePath = types.FilesystemPath(req.PackagePath)
	}
	if req.AppDataDir != "" {
		cfg.AppDataDir = types.FilesystemPath(req.AppDataDir)
	}
	if len(req.Assets) > 0 {
		cfg.Assets = make([]extract.AssetName, len(req.Assets))
		for i, a := range req.Assets {
			cfg.Assets[i] = extract.AssetName(a)
		}
	}
	if req.Language != "" {
		cfg.Locales.Language = req.Language
	}
	if req.Verbose {
		cfg.UI.Verbose = true
	}

	if ok, errs := cfg.IsValid(); !ok {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Run 'pakextract config show' to inspect the effective values").
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return cfg, nil
}

// openSession loads configuration, opens the package and builds a job that has
// not been started. The caller must Close the session.
func (a *App) openSession(ctx context.Context, req sessionRequest) (*session, error) {
	cfg, err := a.loadConfig(ctx, req)
	if err != nil {
		return nil, err
	}
	logger := newLogger(a.stderr, cfg.UI.Verbose)

	if !cfg.PackagePath.IsSet() {
		return nil, issue.NewErrorContext().
			WithOperation("open package").
			WithIssue(issue.PackageNotFoundId).
			WithSuggestion("Pass --package or set package_path in config.cue").
			Wrap(pkgfile.ErrPackageNotFound).
			BuildError()
	}

	pkgPath := string(cfg.PackagePath)
	pkg, err := pkgfile.Open(pkgPath)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open package").
			WithResource(pkgPath).
			WithIssue(issue.PackageNotFoundId).
			WithSuggestion("Check that package_path points at a directory, .zip or .apk").
			Wrap(err).
			BuildError()
	}

	s := &session{
		cfg:    cfg,
		pkg:    pkg,
		layout: extract.Layout{AppDataDir: cfg.AppDataDir.Clean().String()},
		logger: logger,
	}
	if err := s.build(ctx, a.getenv, req.SkipInterceptor); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) build(ctx context.Context, getenv locale.Env, skipInterceptor bool) error {
	available, err := s.pkg.Locales()
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("list package locales").
			WithResource(s.pkg.Path()).
			WithIssue(issue.PackageMetadataUnreadableId).
			Wrap(err).
			BuildError()
	}
	s.available = available
	s.language = s.cfg.Locales.Language
	if s.language == "" {
		s.language = locale.Language(locale.Detect(getenv))
	}

	b := extract.NewBuilder()
	if err := b.SetAssets(s.cfg.RequiredAssets(s.language, available)...); err != nil {
		return err
	}

	if m := s.cfg.Interceptor.Minio; m.Enabled() && !skipInterceptor {
		icp, err := miniosrc.New(ctx, miniosrc.Config{
			Endpoint:        m.Endpoint,
			AccessKeyID:     m.AccessKeyID,
			SecretAccessKey: m.SecretAccessKey,
			UseSSL:          m.UseSSL,
			Bucket:          m.Bucket,
			Prefix:          m.Prefix,
		}, m.Assets, miniosrc.WithLogger(s.logger))
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("connect resource interceptor").
				WithResource(m.Endpoint + "/" + m.Bucket).
				WithIssue(issue.InterceptorUnavailableId).
				WithSuggestion("Check interceptor.minio in config.cue").
				Wrap(err).
				BuildError()
		}
		if err := b.SetInterceptor(icp); err != nil {
			return err
		}
	}

	s.plan = b.Build()
	s.loop = mainloop.New()
	job, err := extract.NewJob(extract.Dependencies{
		Plan:     s.plan,
		Layout:   s.layout,
		Source:   s.pkg.Source(),
		Metadata: s.pkg,
		Main:     s.loop,
	}, extract.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.job = job
	return nil
}

// Close stops the main loop and releases the package. A job that is still running
// keeps reading from the package, so in that case the package is left open for the
// process exit to reclaim.
func (s *session) Close() error {
	if s.loop != nil {
		s.loop.Close()
	}
	if s.job != nil && s.job.State() == jobbase.StateRunning {
		s.logger.Debug("leaving package open for the running extraction job", "package", s.pkg.Path())
		return nil
	}
	return s.pkg.Close()
}

// newLogger creates the CLI logger. Verbose selects debug level and timestamps.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		Level:           level,
		ReportTimestamp: verbose,
	})
}
