// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/invowk/pakextract/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	// verbose enables debug logging and full error chains.
	verbose bool
	// cfgFile selects a specific config file.
	cfgFile string
}

// NewRootCommand creates the pakextract command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "pakextract",
		Short: "Extract bundled resources from an application package",
		Long: TitleStyle.Render("pakextract") + SubtitleStyle.Render(" - Extract bundled resources from an application package") + `

pakextract copies the locale and data resources bundled in a read-only
application package into a writable directory, so native code can open
them by path. Extracted files carry a suffix derived from the package
version; when the package changes, stale files are removed and the
current set is extracted again.

` + SubtitleStyle.Render("Examples:") + `
  pakextract extract --package ./app.apk   Extract resources for the current locale
  pakextract status                        Show which resources are up to date
  pakextract locales                       Show the locale resources that would be extracted
  pakextract config init                   Create a default configuration file`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default is $HOME/.config/pakextract/config.cue)")

	rootCmd.AddCommand(newExtractCommand(app, flags))
	rootCmd.AddCommand(newStatusCommand(app, flags))
	rootCmd.AddCommand(newLocalesCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	os.Exit(Run())
}

// Run executes the command tree with os.Args and returns the process exit code.
func Run() int {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version is passed explicitly.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.Code)
		}
		return int(types.ExitFailure)
	}
	return int(types.ExitSuccess)
}
