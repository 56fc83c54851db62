// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/invowk/pakextract/internal/extract"

	"github.com/spf13/cobra"
)

// extractFlags holds the flags of the extract command.
type extractFlags struct {
	packagePath string
	appDataDir  string
	assets      []string
	language    string
	timeout     time.Duration
}

func newExtractCommand(app *App, root *rootFlags) *cobra.Command {
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract bundled resources into the app data directory",
		Long: `Extract the required resources from the application package.

The required set is the assets list from the configuration or --asset flags.
When neither is given, the locale resources matching the current language are
selected. Resources that are already extracted for the installed package
version are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := sessionRequest{
				ConfigPath:  root.cfgFile,
				PackagePath: flags.packagePath,
				AppDataDir:  flags.appDataDir,
				Assets:      flags.assets,
				Language:    flags.language,
				Verbose:     root.verbose,
			}
			return runExtract(cmd.Context(), app, req, flags.timeout)
		},
	}

	cmd.Flags().StringVarP(&flags.packagePath, "package", "p", "", "application package (directory, .zip or .apk)")
	cmd.Flags().StringVar(&flags.appDataDir, "app-data-dir", "", "writable directory that receives the extracted files")
	cmd.Flags().StringArrayVarP(&flags.assets, "asset", "a", nil, "asset to extract (repeatable, overrides the configured set)")
	cmd.Flags().StringVar(&flags.language, "lang", "", "language used to select locale resources (default: detected)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "give up waiting after this long (0 waits until done)")

	return cmd
}

func runExtract(ctx context.Context, app *App, req sessionRequest, timeout time.Duration) error {
	s, err := app.openSession(ctx, req)
	if err != nil {
		return reportError(app.stderr, classifyJobError(err, extract.Layout{}), req.Verbose)
	}
	defer func() { _ = s.Close() }()

	if s.plan.IsEmpty() {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("No resources selected for extraction."))
	}

	// The summary is printed from a completion callback, which runs on the main loop
	// driven below.
	s.job.OnComplete(func() {
		printSummary(app.stdout, s.job.Result(), s.plan)
	})

	s.job.Start(ctx)

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := s.loop.RunUntil(waitCtx, s.job.Done()); err != nil {
		s.logger.Warn("stopped waiting for resource extraction", "state", s.job.State())
		return reportError(app.stderr, classifyJobError(err, s.layout), s.cfg.UI.Verbose)
	}
	if err := s.job.LastError(); err != nil {
		return reportError(app.stderr, classifyJobError(err, s.layout), s.cfg.UI.Verbose)
	}
	return nil
}

func printSummary(w io.Writer, res extract.Result, plan extract.Plan) {
	switch {
	case plan.IsEmpty():
		return
	case res.UpToDate:
		fmt.Fprintf(w, "%s %d resources up to date (%s)\n",
			SuccessStyle.Render(markPresent), plan.Len(), KeyStyle.Render(res.Suffix))
		return
	}

	for _, f := range res.Extracted {
		fmt.Fprintf(w, "  %s %s → %s (%d bytes)\n",
			SuccessStyle.Render(markPresent), f.Name, KeyStyle.Render(f.Path), f.Bytes)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render("!"), warn.Error())
	}
	fmt.Fprintf(w, "%s Extracted %d resources in %s (%s)\n",
		SuccessStyle.Render(markPresent), len(res.Extracted), res.Elapsed.Round(time.Millisecond), KeyStyle.Render(res.Suffix))
}
