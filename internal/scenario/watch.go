package scenario

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/Iron-Ham/tessel/internal/errors"
	"github.com/Iron-Ham/tessel/internal/logging"
)

// Watcher reports scenario files that changed on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	match    glob.Glob
	files    map[string]bool // explicitly watched files
	dirs     map[string]bool // watched directories
	debounce time.Duration
	logger   *logging.Logger
}

// NewWatcher watches the given files and directories. Changes inside a
// directory are reported when the base name matches pattern.
func NewWatcher(paths []string, pattern string, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewValidationError("invalid match pattern").WithField("match").WithValue(pattern).WithCause(err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	w := &Watcher{
		watcher:  fw,
		match:    g,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		debounce: debounce,
		logger:   logger.WithComponent("watcher"),
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.NewNotFoundError("scenario path", path).WithCause(err)
	}
	if info.IsDir() {
		w.dirs[filepath.Clean(path)] = true
		return w.watcher.Add(path)
	}
	// Editors often replace files on save, so watch the parent directory.
	w.files[filepath.Clean(path)] = true
	return w.watcher.Add(filepath.Dir(path))
}

func (w *Watcher) relevant(name string) bool {
	clean := filepath.Clean(name)
	if w.files[clean] {
		return true
	}
	return w.dirs[filepath.Dir(clean)] && w.match.Match(filepath.Base(clean))
}

// Run delivers debounced batches of changed files to onChange until ctx is
// cancelled. onChange is never called concurrently with itself.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(ev.Name) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			pending = make(map[string]bool)
			sort.Strings(changed)
			w.logger.Debug("scenario files changed", "count", len(changed))
			onChange(changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err.Error())
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
