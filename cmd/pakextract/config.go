// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/invowk/pakextract/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `pakextract config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App, root *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pakextract configuration",
		Long: `Manage pakextract configuration.

Configuration is stored in:
  - Linux: ~/.config/pakextract/config.cue
  - macOS: ~/Library/Application Support/pakextract/config.cue
  - Windows: %APPDATA%\pakextract\config.cue

Every key can be overridden with a PAKEXTRACT_ environment variable,
e.g. PAKEXTRACT_APP_DATA_DIR or PAKEXTRACT_UI_VERBOSE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, root)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app, root)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), app.loadOptions(root.cfgFile))
			if err != nil {
				return reportError(app.stderr, err, root.verbose)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, root *rootFlags) error {
	cfg, err := app.Config.Load(ctx, app.loadOptions(root.cfgFile))
	if err != nil {
		return reportError(app.stderr, err, root.verbose)
	}

	w := app.stdout
	keyStyle := KeyStyle
	valueStyle := SuccessStyle
	none := SubtitleStyle.Render("(none)")

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	cfgPath, _ := app.Config.Locate(app.loadOptions(root.cfgFile))
	if cfgPath == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	}
	fmt.Fprintln(w)

	value := func(v string) string {
		if v == "" {
			return none
		}
		return valueStyle.Render(v)
	}
	list := func(vs []string) string {
		if len(vs) == 0 {
			return none
		}
		return valueStyle.Render(strings.Join(vs, ", "))
	}
	assets := func(c *config.Config) []string {
		out := make([]string, len(c.Assets))
		for i, a := range c.Assets {
			out[i] = string(a)
		}
		return out
	}

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("app_data_dir"), value(string(cfg.AppDataDir)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("package_path"), value(string(cfg.PackagePath)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("assets"), list(assets(cfg)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("locales"))
	fmt.Fprintf(w, "  available: %s\n", list(cfg.Locales.Available))
	fmt.Fprintf(w, "  fallback: %s\n", value(cfg.Locales.Fallback))
	fmt.Fprintf(w, "  language: %s\n", value(cfg.Locales.Language))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("interceptor.minio"))
	m := cfg.Interceptor.Minio
	if !m.Enabled() {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(disabled)"))
	} else {
		fmt.Fprintf(w, "  endpoint: %s\n", value(m.Endpoint))
		fmt.Fprintf(w, "  bucket: %s\n", value(m.Bucket))
		fmt.Fprintf(w, "  prefix: %s\n", value(m.Prefix))
		fmt.Fprintf(w, "  use_ssl: %s\n", valueStyle.Render(fmt.Sprintf("%v", m.UseSSL)))
		claimed := make([]string, len(m.Assets))
		for i, a := range m.Assets {
			claimed[i] = string(a)
		}
		fmt.Fprintf(w, "  assets: %s\n", list(claimed))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig(app *App) error {
	cfgPath, created, err := config.CreateDefaultConfig(app.configDir)
	if err != nil {
		return reportError(app.stderr, fmt.Errorf("failed to create config: %w", err), false)
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), cfgPath)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render(markPresent), cfgPath)
	return nil
}

func showConfigPath(app *App, root *rootFlags) error {
	cfgDir := app.configDir
	if cfgDir == "" {
		var err error
		if cfgDir, err = config.ConfigDir(); err != nil {
			return reportError(app.stderr, err, root.verbose)
		}
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)

	cfgPath, err := app.Config.Locate(app.loadOptions(root.cfgFile))
	if err != nil {
		return reportError(app.stderr, err, root.verbose)
	}
	if cfgPath == "" {
		fmt.Fprintf(app.stdout, "Config file: %s\n", SubtitleStyle.Render("(none, using defaults)"))
	} else {
		fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	}

	if dataDir, err := config.DataDir(); err == nil {
		fmt.Fprintf(app.stdout, "Default app data directory: %s\n", dataDir)
	}
	return nil
}
