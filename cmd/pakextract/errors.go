// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/invowk/pakextract/internal/extract"
	"github.com/invowk/pakextract/internal/issue"
	"github.com/invowk/pakextract/pkg/types"
)

// classifyJobError wraps a failed extraction in an ActionableError that points at
// the matching issue catalog entry. Errors that already carry context pass through.
func classifyJobError(err error, layout extract.Layout) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().WithOperation("extract resources").Wrap(err)

	var (
		snf *extract.SourceNotFoundError
		ioe *extract.IOError
	)
	switch {
	case errors.As(err, &snf):
		ctx.WithResource(string(snf.Name)).
			WithIssue(issue.AssetNotFoundId).
			WithSuggestion("Run 'pakextract locales' to see which assets the package ships")
	case errors.Is(err, extract.ErrVersionLookup):
		ctx.WithIssue(issue.PackageMetadataUnreadableId).
			WithSuggestion("Check that package.toml exists at the package root")
	case errors.As(err, &ioe) && ioe.Op == "mkdir":
		ctx.WithResource(ioe.Path).
			WithIssue(issue.OutputDirUnwritableId).
			WithSuggestion("Pass --app-data-dir with a writable directory")
	case errors.As(err, &ioe):
		ctx.WithResource(ioe.Path).
			WithIssue(issue.ExtractionFailedId)
	case errors.Is(err, extract.ErrConfig), errors.Is(err, extract.ErrInvalidAssetName):
		ctx.WithOperation("configure extraction").
			WithIssue(issue.ConfigLoadFailedId)
	case errors.Is(err, context.DeadlineExceeded):
		ctx.WithResource(layout.OutputDir()).
			WithIssue(issue.ExtractionTimedOutId).
			WithSuggestion("Raise --timeout or run without it")
	case errors.Is(err, context.Canceled):
		ctx.WithOperation("wait for extraction").
			WithResource(layout.OutputDir()).
			WithIssue(issue.ExtractionInterruptedId).
			WithSuggestion("Run the command again to finish extraction")
	default:
		ctx.WithIssue(issue.ExtractionFailedId)
	}
	return ctx.BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// reportError prints err and, in verbose mode, the catalog entry it links to.
// It returns an ExitError so the process exits non-zero.
func reportError(w io.Writer, err error, verbose bool) error {
	if err == nil {
		return nil
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) {
		if entry := ae.Issue(); entry != nil {
			if rendered, renderErr := entry.Render("dark"); renderErr == nil {
				fmt.Fprint(w, rendered)
			}
		}
	}
	return &ExitError{Code: types.ExitFailure, Err: err}
}
