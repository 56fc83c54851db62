// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/invowk/pakextract/internal/core/jobbase"

	"github.com/charmbracelet/log"
)

type (
	// Dependencies are the collaborators a Job needs. Source and Metadata may be nil
	// only when the plan is empty.
	Dependencies struct {
		Plan     Plan
		Layout   Layout
		Source   Source
		Metadata PackageMetadata
		// Main is the designated execution context for completion callbacks.
		Main Poster
	}

	// Option configures a Job.
	Option func(*Job)

	// ExtractedFile describes one file written by the job.
	ExtractedFile struct {
		Name  AssetName
		Path  string
		Bytes int64
	}

	// Result summarizes a finished job.
	Result struct {
		// Suffix is the extract suffix in effect. Empty when the plan was empty.
		Suffix string
		// UpToDate is true when every file already existed and nothing was written.
		UpToDate  bool
		Extracted []ExtractedFile
		Warnings  []*DeleteWarning
		Elapsed   time.Duration
	}

	// Job is the process-wide extraction job. Create it once at startup and share the
	// instance with every caller that needs extraction status.
	Job struct {
		base     *jobbase.Base
		plan     Plan
		layout   Layout
		source   Source
		metadata PackageMetadata
		registry *Registry

		extractor *Extractor
		sweeper   *Sweeper
		logger    *log.Logger

		resultMu sync.Mutex
		result   Result
	}
)

// WithLogger sets the job logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(j *Job) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// NewJob creates a Job in the NotStarted state.
func NewJob(deps Dependencies, opts ...Option) (*Job, error) {
	if deps.Main == nil {
		return nil, &ConfigError{Reason: "no main execution context configured"}
	}
	if !deps.Plan.IsEmpty() {
		if deps.Layout.AppDataDir == "" {
			return nil, &ConfigError{Reason: "app data directory is empty"}
		}
		if deps.Metadata == nil {
			return nil, &ConfigError{Reason: "no package metadata source configured"}
		}
		if deps.Source == nil && deps.Plan.Interceptor() == nil {
			return nil, &ConfigError{Reason: "no asset source configured"}
		}
	}

	j := &Job{
		plan:     deps.Plan,
		layout:   deps.Layout,
		source:   deps.Source,
		metadata: deps.Metadata,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(j)
	}

	j.registry = NewRegistry(deps.Main, j.logger)
	j.extractor = NewExtractor(j.logger)
	j.sweeper = NewSweeper(j.logger)
	j.base = jobbase.NewBase(jobbase.WithOnTerminal(func(s jobbase.State, _ error) {
		if s == jobbase.StateCompleted {
			j.registry.Complete()
			return
		}
		j.registry.Abandon()
	}))

	return j, nil
}

// Start launches the extraction on a background goroutine and reports whether this
// call started it. Calls after the first are no-ops. An empty plan completes
// synchronously without touching the filesystem.
//
// ctx supplies values to the collaborators; cancelling it does not stop a running job.
func (j *Job) Start(ctx context.Context) bool {
	if !j.base.TransitionToRunning() {
		return false
	}

	if j.plan.IsEmpty() {
		j.logger.Debug("no resources to extract")
		j.base.TransitionToCompleted()
		return true
	}

	ctx = context.WithoutCancel(ctx)
	go j.run(ctx)
	return true
}

// State returns the current lifecycle state.
func (j *Job) State() jobbase.State { return j.base.State() }

// Plan returns the job's frozen plan.
func (j *Job) Plan() Plan { return j.plan }

// Layout returns the job's output layout.
func (j *Job) Layout() Layout { return j.layout }

// Done returns a channel closed once the job is Completed or Failed.
func (j *Job) Done() <-chan struct{} { return j.base.Done() }

// Err returns a channel that receives the job's failure.
func (j *Job) Err() <-chan error { return j.base.Err() }

// LastError returns the failure that ended the job, or nil.
func (j *Job) LastError() error { return j.base.LastError() }

// OnComplete registers cb to run on the main context once extraction has completed.
// If it already has, cb is posted immediately rather than called inline.
func (j *Job) OnComplete(cb func()) {
	j.registry.OnComplete(cb)
}

// WaitForCompletion blocks until the job is Completed or Failed and returns the failure.
// It never times out on its own; ctx bounds only the caller's wait.
//
// Prefer OnComplete: blocking a caller on disk I/O is rarely what you want.
func (j *Job) WaitForCompletion(ctx context.Context) error {
	if j.plan.IsEmpty() {
		return nil
	}
	if j.base.State() == jobbase.StateNotStarted {
		return &ConfigError{Reason: "waiting on an extraction job that was never started"}
	}
	return j.base.Wait(ctx)
}

// MustWaitForCompletion is WaitForCompletion for callers that cannot continue without
// the extracted files. A failed job is a broken invariant and panics.
func (j *Job) MustWaitForCompletion() {
	if err := j.WaitForCompletion(context.Background()); err != nil {
		panic(fmt.Sprintf("resource extraction did not complete: %v", err))
	}
}

// Result returns a copy of the job summary. It is final once Done is closed.
func (j *Job) Result() Result {
	j.resultMu.Lock()
	defer j.resultMu.Unlock()

	r := j.result
	r.Extracted = slices.Clone(r.Extracted)
	r.Warnings = slices.Clone(r.Warnings)
	return r
}

func (j *Job) run(ctx context.Context) {
	started := time.Now()
	j.logger.Debug("resource extraction running", "assets", j.plan.assets)

	res, err := j.extractAll(ctx)
	res.Elapsed = time.Since(started)

	j.resultMu.Lock()
	j.result = res
	j.resultMu.Unlock()

	if err != nil {
		// Native code cannot run with a subset of its files; the failure is terminal.
		j.logger.Error("resource extraction failed", "err", err)
		j.base.TransitionToFailed(err)
		return
	}
	j.logger.Debug("resource extraction finished", "elapsed", res.Elapsed, "up_to_date", res.UpToDate)
	j.base.TransitionToCompleted()
}

func (j *Job) extractAll(ctx context.Context) (Result, error) {
	var res Result

	suffix, err := ResolveSuffix(ctx, j.metadata)
	if err != nil {
		return res, err
	}
	res.Suffix = suffix

	outputDir := j.layout.OutputDir()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return res, &IOError{Op: "mkdir", Path: outputDir, Err: err}
	}

	existing := ListNames(outputDir)
	if IsUpToDate(existing, j.plan.assets, suffix) {
		j.logger.Debug("extracted resources are up to date", "suffix", suffix)
		res.UpToDate = true
		return res, nil
	}

	// A missing file means the package was updated. Remove stale files first.
	res.Warnings = j.sweeper.Sweep(outputDir, j.layout.AppDataDir, existing)

	for _, name := range j.plan.assets {
		f, err := j.extractAsset(ctx, name, suffix)
		if err != nil {
			return res, err
		}
		res.Extracted = append(res.Extracted, f)
	}
	return res, nil
}

func (j *Job) extractAsset(ctx context.Context, name AssetName, suffix string) (ExtractedFile, error) {
	started := time.Now()
	dst := j.layout.PathFor(name, suffix)

	src, err := openAsset(ctx, name, j.source, j.plan.interceptor)
	if err != nil {
		return ExtractedFile{}, err
	}

	n, err := j.extractor.ExtractOne(src, dst)
	if err != nil {
		return ExtractedFile{}, err
	}

	j.logger.Debug("extracted resource", "asset", name, "bytes", n, "elapsed", time.Since(started))
	return ExtractedFile{Name: name, Path: dst, Bytes: n}, nil
}

// IsFatal reports whether err ends the job, as opposed to a DeleteWarning.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var w *DeleteWarning
	return !errors.As(err, &w)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
