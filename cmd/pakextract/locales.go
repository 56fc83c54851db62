// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLocalesCommand(app *App, root *rootFlags) *cobra.Command {
	var (
		packagePath string
		lang        string
	)

	cmd := &cobra.Command{
		Use:   "locales",
		Short: "Show the locale resources selected for the current language",
		Long: `Show the detected language, the locales bundled in the package and the
resources that extract would select. The language is read from LC_ALL,
LC_MESSAGES and LANG unless locales.language or --lang is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := sessionRequest{
				ConfigPath:      root.cfgFile,
				PackagePath:     packagePath,
				Language:        lang,
				Verbose:         root.verbose,
				SkipInterceptor: true,
			}
			return runLocales(cmd.Context(), app, req)
		},
	}

	cmd.Flags().StringVarP(&packagePath, "package", "p", "", "application package (directory, .zip or .apk)")
	cmd.Flags().StringVar(&lang, "lang", "", "language to select for (default: detected)")

	return cmd
}

func runLocales(ctx context.Context, app *App, req sessionRequest) error {
	s, err := app.openSession(ctx, req)
	if err != nil {
		return reportError(app.stderr, err, req.Verbose)
	}
	defer func() { _ = s.Close() }()

	w := app.stdout
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Language"), s.language)

	available := s.available
	if len(s.cfg.Locales.Available) > 0 {
		available = s.cfg.Locales.Available
	}
	if len(available) == 0 {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Available"), SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Available"), strings.Join(available, ", "))
	}
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Fallback"), s.cfg.Locales.Fallback)

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Selected resources"))
	if s.plan.IsEmpty() {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
		return nil
	}
	for _, name := range s.plan.Assets() {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	return nil
}
