// Package watch keeps a workspace in sync with on-disk machine-definition
// files: a recursive fsnotify watcher emits debounced change batches, and an
// updater folds each batch into the workspace manager.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/machlink/machlink/pkg/resolve"
)

// ChangeEvent represents a single filesystem change to a machine file.
type ChangeEvent struct {
	Path string
	Op   fsnotify.Op
}

// Watcher watches a workspace root for machine-definition file changes and
// emits debounced batches.
type Watcher struct {
	rootPath   string
	extensions []string
	debounce   time.Duration
	logger     *slog.Logger
	fsw        *fsnotify.Watcher
}

// NewWatcher creates a Watcher that recursively watches rootPath for changes
// to files with the given extensions (DefaultExtensions when empty). Hidden
// directories and vendor are skipped.
func NewWatcher(rootPath string, extensions []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if len(extensions) == 0 {
		extensions = resolve.DefaultExtensions
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		rootPath:   rootPath,
		extensions: extensions,
		debounce:   debounce,
		logger:     logger,
		fsw:        fsw,
	}

	if err := w.addDirs(); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// addDirs walks rootPath and adds every non-hidden, non-vendor directory.
func (w *Watcher) addDirs() error {
	return filepath.WalkDir(w.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != w.rootPath && (strings.HasPrefix(name, ".") || name == "vendor") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Run is the main event loop. It reads fsnotify events, filters for machine
// files, debounces rapid edits, and sends batched ChangeEvents to out.
// It blocks until ctx is cancelled or the underlying watcher closes.
func (w *Watcher) Run(ctx context.Context, out chan<- []ChangeEvent) error {
	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(w.debounce)
	timer.Stop() // don't fire until we have events

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.accept(ev) {
				pending[ev.Name] |= ev.Op
				timer.Reset(w.debounce)
			}
			// When a new directory is created, start watching it.
			if ev.Op&fsnotify.Create != 0 {
				w.maybeAddDir(ev.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "err", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]ChangeEvent, 0, len(pending))
			for p, op := range pending {
				batch = append(batch, ChangeEvent{Path: p, Op: op})
			}
			pending = make(map[string]fsnotify.Op)

			select {
			case out <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Close shuts down the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// accept returns true if the event is for a machine file and carries a
// relevant op.
func (w *Watcher) accept(ev fsnotify.Event) bool {
	matched := false
	for _, ext := range w.extensions {
		if strings.HasSuffix(ev.Name, ext) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// maybeAddDir adds path to the watch set if it is a directory.
func (w *Watcher) maybeAddDir(path string) {
	// Best effort; non-dirs and symlinks just fail the Add.
	if err := w.fsw.Add(path); err != nil {
		w.logger.Debug("could not add to watch", "path", path, "err", err)
	}
}
