// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/vagrantory/vagrantory/internal/discovery"
	"github.com/vagrantory/vagrantory/internal/watch"
	"github.com/vagrantory/vagrantory/pkg/sourcefile"
	"github.com/vagrantory/vagrantory/pkg/types"
)

// newWatchCommand creates the `vagrantory watch` command.
func newWatchCommand(app *App) *cobra.Command {
	var (
		debounce    time.Duration
		clearScreen bool
	)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve and print the inventory whenever source files change",
		Long: `Resolve the inventory once, then keep watching every file that fed the
resolution: the discovered source files and each Vagrant project's
Vagrantfile. When one changes, the inventory is re-resolved with the
cache bypassed and printed again.

Editing a source file can change which files matter (a new path entry,
a removed project), so the watch set is recomputed after every
re-resolution.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), app, debounce, clearScreen)
		},
	}

	watchCmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-resolving (default 500ms)")
	watchCmd.Flags().BoolVar(&clearScreen, "clear", false, "clear the screen before each re-resolution")

	return watchCmd
}

// runWatch resolves once, then watches every file that fed the resolution.
// Watch-triggered passes bypass the cache: a stale cached result is exactly
// what watching exists to avoid. Each pass recomputes the watch set; when it
// differs from the running watcher's set, the watcher is torn down and
// rebuilt around the new set.
func runWatch(ctx context.Context, app *App, debounce time.Duration, clearScreen bool) error {
	fmt.Fprintf(app.stdout, "%s Watch mode: initial resolution\n", VerboseHighlightStyle.Render("→"))
	files, err := resolveAndPrint(ctx, app, rootResolveOptions())
	if err != nil {
		// Log but don't stop — the user may fix the source and save again.
		fmt.Fprintf(app.stderr, "%s Initial resolution failed: %v\n", WarningStyle.Render("!"), err)
	}
	if ctx.Err() != nil {
		return nil
	}

	refreshOpts := rootResolveOptions()
	refreshOpts.refresh = true

	for {
		fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", VerboseHighlightStyle.Render("→"))

		// next and rebuild are written by the watcher's callback goroutine
		// strictly before cancel(), and read only after Run returns.
		var (
			mu      sync.Mutex
			next    []types.FilesystemPath
			rebuild bool
		)

		runCtx, cancel := context.WithCancel(ctx)
		w, watchErr := watch.New(watch.Config{
			Files:       files,
			Patterns:    sourceNamePatterns(),
			Debounce:    debounce,
			ClearScreen: clearScreen,
			Stdout:      app.stdout,
			Stderr:      app.stderr,
			OnChange: func(cbCtx context.Context, changed []string) error {
				fmt.Fprintf(app.stdout, "%s Detected %d change(s). Re-resolving...\n",
					VerboseHighlightStyle.Render("→"), len(changed))
				latest, resErr := resolveAndPrint(cbCtx, app, refreshOpts)
				if resErr != nil {
					fmt.Fprintf(app.stderr, "%s Resolution failed: %v\n", WarningStyle.Render("!"), resErr)
				}
				if !slices.Equal(latest, files) {
					mu.Lock()
					next = latest
					rebuild = true
					mu.Unlock()
					cancel()
					return nil
				}
				fmt.Fprintf(app.stdout, "\n%s Watching for changes...\n\n", VerboseHighlightStyle.Render("→"))
				return nil
			},
		})
		if watchErr != nil {
			cancel()
			return fmt.Errorf("failed to start watcher: %w", watchErr)
		}

		runErr := w.Run(runCtx)
		cancel()
		if runErr != nil {
			return runErr
		}
		if ctx.Err() != nil {
			return nil
		}

		mu.Lock()
		doRebuild := rebuild
		files = next
		mu.Unlock()
		if !doRebuild {
			return nil
		}
	}
}

// resolveAndPrint runs one resolution pass, prints the inventory JSON on
// success, and returns the watch set for the discovered sources.
func resolveAndPrint(ctx context.Context, app *App, opts resolveOptions) ([]types.FilesystemPath, error) {
	inv, sources, err := app.resolveInventory(ctx, opts)
	files := watchSet(sources)
	if err != nil {
		return files, app.fail(err)
	}

	data, err := inv.ListJSON()
	if err != nil {
		return files, err
	}
	fmt.Fprintln(app.stdout, string(data))
	return files, nil
}

// watchSet lists the files whose changes invalidate a resolution: every
// discovered source file (broken ones included, so fixing one retriggers)
// plus each vagrant path entry's Vagrantfile. Sorted and deduplicated so
// sets compare by element.
func watchSet(sources []*discovery.DiscoveredSource) []types.FilesystemPath {
	seen := make(map[types.FilesystemPath]struct{})
	var files []types.FilesystemPath
	add := func(p types.FilesystemPath) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, src := range sources {
		add(src.Path)
		if src.File == nil {
			continue
		}
		for _, entry := range src.File.Paths {
			if entry.Path == "" {
				continue
			}
			dir, err := src.File.ResolvePath(entry.Path)
			if err != nil {
				continue
			}
			add(types.FilesystemPath(filepath.Join(dir.String(), "Vagrantfile")))
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })
	return files
}

// sourceNamePatterns returns watch patterns for the accepted source file
// names, so a source file created in the working directory after startup
// still triggers a re-resolution.
func sourceNamePatterns() []watch.GlobPattern {
	patterns := make([]watch.GlobPattern, len(sourcefile.AcceptedNames))
	for i, name := range sourcefile.AcceptedNames {
		patterns[i] = watch.GlobPattern(name)
	}
	return patterns
}
