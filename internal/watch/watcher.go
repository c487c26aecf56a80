// SPDX-License-Identifier: MPL-2.0

// Package watch provides file-watching with debounced re-resolution.
//
// It monitors a known set of inventory-related files (source files and
// Vagrantfiles) plus optional glob patterns under a base directory, and
// invokes a callback after a configurable debounce period. Events within
// the debounce window are coalesced so the callback fires once with the
// full set of changed paths.
package watch

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the onChange callback after the
// last filesystem event. This allows rapid successive events (e.g., an editor
// writing then renaming a temp file) to coalesce into a single callback.
const defaultDebounce = 500 * time.Millisecond

// defaultIgnores lists path patterns that are always excluded from watching,
// regardless of user-supplied ignore patterns. The .vagrant directory holds
// per-machine state that Vagrant rewrites constantly while machines run; the
// rest covers VCS metadata, editor swap files, and OS metadata files.
var defaultIgnores = []GlobPattern{
	"**/.git/**",
	"**/.vagrant/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// Watcher monitors inventory source files and fires a debounced callback
// when they change. Run must be called exactly once; calling it a second
// time returns an error.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	ignores  []GlobPattern
	stdout   io.Writer
	stderr   io.Writer
	debounce time.Duration
	baseDir  string
	started  atomic.Bool
}

// New creates a Watcher from the given Config. It resolves BaseDir to an
// absolute path, initialises the underlying fsnotify watcher, and registers
// the parent directory of every watched file. Watching parents instead of
// the files themselves survives the delete-and-recreate cycle editors use
// for atomic saves, and picks up watched files that do not exist yet.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir.String()
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// Merge user ignores with built-in defaults.
	ignores := make([]GlobPattern, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	files := make(map[string]struct{}, len(cfg.Files))
	for _, f := range cfg.Files {
		path := f.String()
		if !filepath.IsAbs(path) {
			path = filepath.Join(absBase, path)
		}
		files[filepath.Clean(path)] = struct{}{}
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		files:    files,
		ignores:  ignores,
		stdout:   stdout,
		stderr:   stderr,
		debounce: debounce,
		baseDir:  absBase,
	}

	if err := w.registerDirs(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates any fatal watcher errors. Run must be
// called exactly once; a second call returns an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes the OnChange callback.
	// It may be scheduled by time.AfterFunc after the context is cancelled,
	// so check ctx.Err() as a best-effort guard. A narrow TOCTOU window
	// remains between the check and OnChange invocation; the callback
	// receives ctx and should check it for cancellation-sensitive work.
	// Uses atomic "skip-if-busy" guard to prevent concurrent callback
	// invocations when re-resolution takes longer than the debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			fmt.Fprintf(w.stderr, "watch: skipping re-resolution (previous run still in progress)\n")
			// Schedule a retry so pending events are not permanently lost.
			// Without this, if no further filesystem events arrive, the
			// accumulated pending set would be silently discarded.
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Collect(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			// ANSI escape: clear screen and move cursor to top-left.
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	// Ensure the timer channel is drained on exit. The timer is accessed
	// under mu because it is written by the event loop under the same lock.
	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil && !localTimer.Stop() {
			select {
			case <-localTimer.C:
			default:
			}
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}

			if w.isIgnored(rel) {
				continue
			}

			if !w.matches(evt.Name, rel) {
				continue
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// Classify the error: resource exhaustion (inotify limit, file
			// descriptor limits) indicates the watcher is fundamentally broken.
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// registerDirs adds the parent directory of every watched file, plus the
// base directory when patterns are configured. A directory that cannot be
// registered (e.g., a project folder that does not exist yet) is skipped
// with a warning; watching the rest is more useful than refusing to start.
func (w *Watcher) registerDirs() error {
	dirs := make(map[string]struct{})
	if len(w.cfg.Patterns) > 0 {
		dirs[w.baseDir] = struct{}{}
	}
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}

	if len(dirs) == 0 {
		return fmt.Errorf("watch: nothing to watch (no files and no patterns)")
	}

	registered := 0
	for dir := range dirs {
		if addErr := w.fsw.Add(dir); addErr != nil {
			fmt.Fprintf(w.stderr, "watch: skipping directory %q: %v\n", dir, addErr)
			continue
		}
		registered++
	}
	if registered == 0 {
		return fmt.Errorf("watch: no watchable directories")
	}
	return nil
}

// matches reports whether an event path is one of the watched files or
// matches a configured pattern relative to the base directory.
func (w *Watcher) matches(abs, rel string) bool {
	if _, ok := w.files[filepath.Clean(abs)]; ok {
		return true
	}
	return w.matchesPatterns(rel)
}

// matchesPatterns returns true if the given path (relative to BaseDir)
// matches at least one configured watch pattern. With no patterns
// configured, only the explicit file set triggers callbacks.
func (w *Watcher) matchesPatterns(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.cfg.Patterns {
		if matched, matchErr := doublestar.Match(string(pat), normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// isIgnored returns true if the given path (relative to BaseDir) matches any
// ignore pattern.
func (w *Watcher) isIgnored(rel string) bool {
	// Normalise to forward slashes for consistent glob matching.
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(string(pat), normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns. This is
// useful for tests and tooling that need to verify the default behaviour.
func DefaultIgnores() []GlobPattern {
	out := make([]GlobPattern, len(defaultIgnores))
	copy(out, defaultIgnores)
	return out
}
