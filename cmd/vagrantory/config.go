// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vagrantory/vagrantory/internal/cache"
	"github.com/vagrantory/vagrantory/internal/config"
	"github.com/vagrantory/vagrantory/internal/issue"
	"github.com/vagrantory/vagrantory/pkg/types"
)

// newConfigCommand creates the `vagrantory config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vagrantory configuration",
		Long: `Manage vagrantory configuration.

Configuration is stored in:
  - Linux: ~/.config/vagrantory/config.cue
  - macOS: ~/Library/Application Support/vagrantory/config.cue
  - Windows: %APPDATA%\vagrantory\config.cue`,
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
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
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

			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		if entry := issue.Get(issue.ConfigLoadFailedId); entry != nil {
			rendered, _ := entry.Render(issueStyle())
			fmt.Fprint(app.stderr, rendered)
		}
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	// Derive the config file path from the standard config directory; the
	// provider does not cache resolved paths.
	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil && fileExistsCheck(cfgDir+"/config.cue") {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgDir+"/config.cue")
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("cache"))
	plugin := cfg.Cache.Plugin
	if plugin == "" {
		plugin = SubtitleStyle.Render("(default: " + cache.DefaultPlugin + ")")
	} else {
		plugin = valueStyle.Render(plugin)
	}
	fmt.Fprintf(app.stdout, "  plugin: %s\n", plugin)
	connection := string(cfg.Cache.Connection)
	if connection == "" {
		connection = SubtitleStyle.Render("(none)")
	} else {
		connection = valueStyle.Render(connection)
	}
	fmt.Fprintf(app.stdout, "  connection: %s\n", connection)
	timeout := SubtitleStyle.Render("(default)")
	if cfg.Cache.Timeout != nil {
		timeout = valueStyle.Render(strconv.Itoa(*cfg.Cache.Timeout) + "s")
	}
	fmt.Fprintf(app.stdout, "  timeout: %s\n", timeout)
	prefix := cfg.Cache.Prefix
	if prefix == "" {
		prefix = SubtitleStyle.Render("(default)")
	} else {
		prefix = valueStyle.Render(prefix)
	}
	fmt.Fprintf(app.stdout, "  prefix: %s\n", prefix)

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("vagrant"))
	binary := cfg.Vagrant.Binary.String()
	if binary == "" {
		binary = SubtitleStyle.Render("(from PATH)")
	} else {
		binary = valueStyle.Render(binary)
	}
	fmt.Fprintf(app.stdout, "  binary: %s\n", binary)
	cmdTimeout := SubtitleStyle.Render("(none)")
	if cfg.Vagrant.CommandTimeout > 0 {
		cmdTimeout = valueStyle.Render(strconv.Itoa(cfg.Vagrant.CommandTimeout) + "s")
	}
	fmt.Fprintf(app.stdout, "  command_timeout: %s\n", cmdTimeout)

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("sources"))
	if len(cfg.Sources) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none configured, discovery probes the working directory)"))
	} else {
		for _, src := range cfg.Sources {
			if src.Name != "" {
				fmt.Fprintf(app.stdout, "  - %s (name: %s)\n", valueStyle.Render(string(src.Path)), valueStyle.Render(src.Name))
			} else {
				fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(string(src.Path)))
			}
		}
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	return nil
}

func initConfig(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s/config.cue\n", cfgDir)
	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		return err
	}

	switch key {
	case "cache.plugin":
		cfg.Cache.Plugin = value

	case "cache.connection":
		cfg.Cache.Connection = types.FilesystemPath(value)

	case "cache.timeout":
		seconds, convErr := strconv.Atoi(value)
		if convErr != nil || seconds < 0 {
			return fmt.Errorf("invalid cache.timeout: must be a non-negative number of seconds")
		}
		cfg.Cache.Timeout = &seconds

	case "cache.prefix":
		cfg.Cache.Prefix = value

	case "vagrant.binary":
		cfg.Vagrant.Binary = config.BinaryFilePath(value)

	case "vagrant.command_timeout":
		seconds, convErr := strconv.Atoi(value)
		if convErr != nil || seconds < 0 {
			return fmt.Errorf("invalid vagrant.command_timeout: must be a non-negative number of seconds")
		}
		cfg.Vagrant.CommandTimeout = seconds

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if ok, _ := scheme.IsValid(); !ok {
			return fmt.Errorf("invalid ui.color_scheme: must be 'auto', 'dark', or 'light'")
		}
		cfg.UI.ColorScheme = scheme

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: cache.plugin, cache.connection, cache.timeout, cache.prefix, vagrant.binary, vagrant.command_timeout, ui.color_scheme, ui.verbose", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
