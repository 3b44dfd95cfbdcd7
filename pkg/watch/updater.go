package watch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/machlink/machlink/pkg/parser"
	"github.com/machlink/machlink/pkg/types"
	"github.com/machlink/machlink/pkg/workspace"
)

// WorkspaceUpdater folds file-change batches into the workspace manager:
// created and modified files are re-parsed and re-registered, deleted files
// are retracted. It is the serialization point for watcher-driven mutations.
type WorkspaceUpdater struct {
	manager *workspace.Manager
	logger  *slog.Logger
}

func NewUpdater(manager *workspace.Manager, logger *slog.Logger) *WorkspaceUpdater {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceUpdater{
		manager: manager,
		logger:  logger,
	}
}

// HandleChanges processes one debounced batch of file-change events.
func (u *WorkspaceUpdater) HandleChanges(ctx context.Context, events []ChangeEvent) {
	start := time.Now()

	for _, ev := range events {
		id := types.NormalizeModuleID(ev.Path)
		switch {
		case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
			u.handleDelete(ev.Path, id)
		case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
			u.handleUpsert(ctx, ev.Path, id)
		}
	}

	u.logger.Info("batch complete",
		"files", len(events),
		"modules", len(u.manager.Modules()),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
}

// handleUpsert re-parses the file and registers it, replacing any previous
// registration so dependency edges are rebuilt from scratch.
func (u *WorkspaceUpdater) handleUpsert(ctx context.Context, path string, id types.ModuleID) {
	// Create events can race with deletes; a vanished file is a no-op here
	// and its Remove event retracts the module.
	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			u.logger.Error("read failed", "file", path, "err", err)
		}
		return
	}

	mod, err := parser.Parse(id, content)
	if err != nil {
		// A half-saved file parses again on the next write; the previous
		// registration stays live until then.
		u.logger.Warn("parse failed, keeping previous version", "file", path, "err", err)
		return
	}

	if err := u.manager.UpdateDocument(ctx, mod); err != nil {
		u.logger.Error("update failed", "module", id, "err", err)
		return
	}
	u.logger.Debug("module re-evaluated", "module", id, "definitions", len(mod.Document.Nodes))
}

func (u *WorkspaceUpdater) handleDelete(path string, id types.ModuleID) {
	u.manager.RemoveDocument(id)
	u.logger.Debug("module retracted", "module", id)
}

// ModuleCount returns the number of loaded modules. Useful for test
// assertions.
func (u *WorkspaceUpdater) ModuleCount() int {
	return len(u.manager.Modules())
}
