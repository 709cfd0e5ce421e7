// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"shmod-cli/internal/config"
	"shmod-cli/internal/issue"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the `shmod config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shmod configuration",
		Long: `Manage shmod configuration.

Configuration is stored in:
  - Linux: ~/.config/shmod/config.cue
  - macOS: ~/Library/Application Support/shmod/config.cue
  - Windows: %APPDATA%\shmod\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{})
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render(glamourStyle())
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	if path := config.ConfigFilePath(); path != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s:\n", keyStyle.Render("module_roots"))
	if len(cfg.ModuleRoots) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, root := range cfg.ModuleRoots {
			fmt.Printf("  - %s\n", valueStyle.Render(string(root)))
		}
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("watch"))
	fmt.Printf("  debounce_ms: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Watch.DebounceMillis)))
	fmt.Printf("  clear_screen: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Watch.ClearScreen)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("lint"))
	if cfg.Lint.ConfigFile == "" {
		fmt.Printf("  config_file: %s\n", SubtitleStyle.Render("(lint.toml in the module root)"))
	} else {
		fmt.Printf("  config_file: %s\n", valueStyle.Render(string(cfg.Lint.ConfigFile)))
	}

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)

	// Also create the user modules directory
	modsDir, err := config.ModulesDir()
	if err == nil {
		if mkdirErr := config.EnsureModulesDir(); mkdirErr != nil {
			log.Warn("failed to create modules directory", "path", modsDir, "error", mkdirErr)
		} else {
			fmt.Printf("%s Created modules directory at %s\n", SuccessStyle.Render("✓"), modsDir)
		}
	} else {
		log.Warn("failed to determine modules directory", "error", err)
	}

	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s/config.cue\n", cfgDir)

	modsDir, err := config.ModulesDir()
	if err == nil {
		fmt.Printf("Modules directory: %s\n", modsDir)
	}

	return nil
}
