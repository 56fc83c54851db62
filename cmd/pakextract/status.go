// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/invowk/pakextract/internal/extract"
	"github.com/invowk/pakextract/pkg/types"

	"github.com/spf13/cobra"
)

type (
	statusFlags struct {
		packagePath string
		appDataDir  string
		check       bool
	}

	// assetStatus is the on-disk state of one required asset.
	assetStatus struct {
		Name    extract.AssetName
		Path    string
		Present bool
	}

	// statusReport is what `status` prints. Computing it never writes to disk.
	statusReport struct {
		PackagePath string
		Suffix      string
		OutputDir   string
		Assets      []assetStatus
		UpToDate    bool
	}
)

func newStatusCommand(app *App, root *rootFlags) *cobra.Command {
	flags := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the extracted resources match the installed package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := sessionRequest{
				ConfigPath:      root.cfgFile,
				PackagePath:     flags.packagePath,
				AppDataDir:      flags.appDataDir,
				Verbose:         root.verbose,
				SkipInterceptor: true,
			}
			return runStatus(cmd.Context(), app, req, flags.check)
		},
	}

	cmd.Flags().StringVarP(&flags.packagePath, "package", "p", "", "application package (directory, .zip or .apk)")
	cmd.Flags().StringVar(&flags.appDataDir, "app-data-dir", "", "directory holding the extracted files")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit with status 3 when resources need extracting")

	return cmd
}

func runStatus(ctx context.Context, app *App, req sessionRequest, check bool) error {
	s, err := app.openSession(ctx, req)
	if err != nil {
		return reportError(app.stderr, err, req.Verbose)
	}
	defer func() { _ = s.Close() }()

	report, err := s.status(ctx)
	if err != nil {
		return reportError(app.stderr, classifyJobError(err, s.layout), s.cfg.UI.Verbose)
	}

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Resource Status"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Package"), report.PackagePath)
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Suffix"), report.Suffix)
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Output"), report.OutputDir)
	fmt.Fprintln(w)

	if len(report.Assets) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(no resources selected)"))
	}
	for _, a := range report.Assets {
		mark := SuccessStyle.Render(markPresent)
		if !a.Present {
			mark = ErrorStyle.Render(markMissing)
		}
		fmt.Fprintf(w, "  %s %s\n", mark, a.Path)
	}
	fmt.Fprintln(w)

	if report.UpToDate {
		fmt.Fprintln(w, SuccessStyle.Render("Up to date"))
		return nil
	}
	fmt.Fprintln(w, WarningStyle.Render("Extraction needed"))
	if check {
		return &ExitError{Code: types.ExitStale}
	}
	return nil
}

// status computes the report from the package version and the output directory
// listing, the same inputs the job uses to decide whether to extract.
func (s *session) status(ctx context.Context) (statusReport, error) {
	report := statusReport{
		PackagePath: s.pkg.Path(),
		OutputDir:   s.layout.OutputDir(),
	}
	if s.plan.IsEmpty() {
		report.UpToDate = true
		return report, nil
	}

	suffix, err := extract.ResolveSuffix(ctx, s.pkg)
	if err != nil {
		return report, err
	}
	report.Suffix = suffix

	for _, name := range s.plan.Assets() {
		p := s.layout.PathFor(name, suffix)
		_, statErr := os.Stat(p)
		report.Assets = append(report.Assets, assetStatus{
			Name:    name,
			Path:    p,
			Present: statErr == nil,
		})
	}

	report.UpToDate = extract.IsUpToDate(extract.ListNames(report.OutputDir), s.plan.Assets(), suffix)
	return report, nil
}
