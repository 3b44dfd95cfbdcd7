// Package mcp exposes the linker workspace over the Model Context Protocol:
// loading a workspace, querying the dependency graph, resolving references,
// and flattening machines.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/machlink/machlink/internal/config"
	"github.com/machlink/machlink/pkg/parser"
	"github.com/machlink/machlink/pkg/resolve"
	"github.com/machlink/machlink/pkg/types"
	"github.com/machlink/machlink/pkg/watch"
	"github.com/machlink/machlink/pkg/workspace"
)

// MCPServer holds the shared state for the MCP tool handlers: a loaded
// workspace, its diagnostic collector, and an optional filesystem watcher
// that incrementally updates the workspace.
type MCPServer struct {
	mu       sync.RWMutex
	cfg      *config.Config
	manager  *workspace.Manager
	sink     *types.Collector
	watcher  *watch.Watcher
	updater  *watch.WorkspaceUpdater
	cancel   context.CancelFunc // stops watcher goroutine
	doneCh   chan struct{}      // closed when the change consumer exits
	rootPath string
	logger   *slog.Logger
}

// NewMCPServer creates a new MCPServer with the given configuration.
func NewMCPServer(cfg *config.Config, logger *slog.Logger) *MCPServer {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MCPServer{cfg: cfg, logger: logger}
}

// LoadWorkspace loads (or reloads) the workspace rooted at path: every
// machine-definition file under it is parsed and registered, then a
// background watcher keeps the workspace current. Returns the number of
// loaded modules.
func (s *MCPServer) LoadWorkspace(ctx context.Context, path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stop any existing watcher.
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}

	s.logger.Info("loading workspace", "path", path)
	sink := types.NewCollector()
	manager := workspace.NewManager(s.newResolver(sink), sink, s.logger)

	files, err := workspace.ScanFiles(path, s.extensions())
	if err != nil {
		return 0, fmt.Errorf("scan workspace: %w", err)
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", file, err)
		}
		id := types.NormalizeModuleID(file)
		mod, err := parser.Parse(id, content)
		if err != nil {
			// Surface the parse failure alongside the linker diagnostics
			// and keep loading the rest of the workspace.
			sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  err.Error(),
				Module:   id,
			})
			continue
		}
		if err := manager.AddDocument(ctx, mod); err != nil {
			return 0, err
		}
	}

	s.manager = manager
	s.sink = sink
	s.rootPath = path

	w, err := watch.NewWatcher(path, s.extensions(), s.cfg.Watch.Debounce.Std(), s.logger)
	if err != nil {
		s.logger.Warn("watcher unavailable, workspace will not auto-update", "err", err)
		return len(manager.Modules()), nil
	}
	s.watcher = w
	s.updater = watch.NewUpdater(manager, s.logger)

	watchCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	ch := make(chan []watch.ChangeEvent, 4)
	done := make(chan struct{})
	s.doneCh = done
	go func() {
		if err := w.Run(watchCtx, ch); err != nil && watchCtx.Err() == nil {
			s.logger.Error("watcher error", "err", err)
		}
		// Run never closes the channel itself; close it here so the
		// consumer below terminates once the watcher stops.
		close(ch)
	}()
	go func() {
		defer close(done)
		for events := range ch {
			s.mu.Lock()
			s.updater.HandleChanges(watchCtx, events)
			s.mu.Unlock()
		}
	}()

	return len(manager.Modules()), nil
}

// Manager returns the loaded workspace manager or an error if none is loaded.
func (s *MCPServer) Manager() (*workspace.Manager, error) {
	if s.manager == nil {
		return nil, fmt.Errorf("no workspace loaded, call load_workspace first")
	}
	return s.manager, nil
}

// Diagnostics returns the workspace's diagnostic collector, which may be nil
// before the first load.
func (s *MCPServer) Diagnostics() *types.Collector {
	return s.sink
}

// RootPath returns the loaded workspace root.
func (s *MCPServer) RootPath() string { return s.rootPath }

// RLock acquires a read lock on the server state.
func (s *MCPServer) RLock() { s.mu.RLock() }

// RUnlock releases the read lock.
func (s *MCPServer) RUnlock() { s.mu.RUnlock() }

// Close stops the watcher and releases resources.
func (s *MCPServer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
}

func (s *MCPServer) extensions() []string {
	if len(s.cfg.Workspace.Extensions) > 0 {
		return s.cfg.Workspace.Extensions
	}
	return resolve.DefaultExtensions
}

// newResolver builds the resolver chain: filesystem always, remote URL when
// enabled.
func (s *MCPServer) newResolver(sink types.DiagnosticSink) resolve.ModuleResolver {
	fsr := resolve.NewFileSystemResolver(s.extensions(), sink)
	if !s.cfg.Remote.Enabled {
		return resolve.NewComposite(fsr)
	}
	client := &http.Client{Timeout: s.cfg.Remote.FetchTimeout.Std()}
	return resolve.NewComposite(
		fsr,
		resolve.NewURLResolver(client, nil, sink, s.logger),
	)
}
