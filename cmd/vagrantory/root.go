// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vagrantory/vagrantory/internal/config"
	"github.com/vagrantory/vagrantory/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// rootFlags holds the persistent and script-protocol flag state bound by
	// newRootCommand.
	rootFlags rootFlagValues
)

// rootFlagValues groups the root command's flag targets.
type rootFlagValues struct {
	// verbose enables debug logging and full error chains.
	verbose bool
	// cfgFile is the explicit --config path.
	cfgFile string
	// inventory is the explicit --inventory source file path.
	inventory string
	// refresh bypasses cached results.
	refresh bool

	// list, host, and graph implement the Ansible inventory script protocol
	// on the bare root command.
	list  bool
	host  string
	graph bool
}

// newRootCommand builds the root command with all subcommands attached.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vagrantory",
		Short: "A dynamic Ansible inventory for Vagrant environments",
		Long: TitleStyle.Render("vagrantory") + SubtitleStyle.Render(" - A dynamic Ansible inventory for Vagrant environments") + `

vagrantory turns running Vagrant machines (and Proxmox VMs) into an
Ansible inventory. It reads declarative source files, queries each
provider for live connection details, and emits inventory JSON that
'ansible-inventory' and 'ansible-playbook' consume directly.

Provider results can be cached between invocations so repeated playbook
runs skip the slow 'vagrant ssh-config' round-trips.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a vagrantory.yml next to your Vagrant projects
  2. List your project folders under 'paths:'
  3. Point Ansible at it: ansible-playbook -i vagrantory.yml site.yml

` + SubtitleStyle.Render("Examples:") + `
  vagrantory list           Print the full inventory as JSON
  vagrantory host web1      Print one host's connection variables
  vagrantory graph          Show the group tree
  vagrantory watch          Re-resolve whenever source files change
  vagrantory cache info     Show the effective cache settings
  vagrantory init           Create a starter vagrantory.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The bare root command speaks the Ansible script protocol:
			// --list and --host are what ansible-inventory invokes on an
			// executable inventory source.
			switch {
			case rootFlags.list:
				return runList(cmd.Context(), app)
			case rootFlags.host != "":
				return runScriptHost(cmd.Context(), app, rootFlags.host)
			case rootFlags.graph:
				return runGraph(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&rootFlags.cfgFile, "config", "", "config file (default is $HOME/.config/vagrantory/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&rootFlags.inventory, "inventory", "i", "", "inventory source file (replaces discovery)")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.refresh, "refresh", false, "bypass cached results and query providers directly")

	rootCmd.Flags().BoolVar(&rootFlags.list, "list", false, "print the full inventory as JSON (inventory script protocol)")
	rootCmd.Flags().StringVar(&rootFlags.host, "host", "", "print one host's variables as JSON (inventory script protocol)")
	rootCmd.Flags().BoolVar(&rootFlags.graph, "graph", false, "print the group tree")
	rootCmd.MarkFlagsMutuallyExclusive("list", "host", "graph")

	rootCmd.AddCommand(
		newListCommand(app),
		newHostCommand(app),
		newGraphCommand(app),
		newWatchCommand(app),
		newCacheCommand(app),
		newConfigCommand(app),
		newInitCommand(app),
		newCompletionCommand(),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
// Release builds carry ldflags metadata; go-install builds fall back to the
// module version from build info.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute builds the App and root command and runs them.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// fang.Execute adds styled help/errors; the version is passed via
	// fang.WithVersion since fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and wires the log level before any
// RunE handler executes.
func initRootConfig() {
	// Set custom config file path if provided via --config flag.
	if rootFlags.cfgFile != "" {
		config.SetConfigFilePathOverride(rootFlags.cfgFile)
	}

	// Load configuration for the global accessors (issue rendering, verbose
	// default). Commands load their own copy through the App's provider.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, rootFlags.verbose))
	}

	// Apply verbose from config if not set via flag.
	if cfg != nil && !rootFlags.verbose {
		rootFlags.verbose = cfg.UI.Verbose
	}

	initLogging(rootFlags.verbose)
}

// initLogging installs a charmbracelet/log handler as the slog default.
// Inventory JSON goes to stdout, so all logging stays on stderr.
func initLogging(verbose bool) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(logger))
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
