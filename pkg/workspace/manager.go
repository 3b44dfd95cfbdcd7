// Package workspace owns the authoritative set of loaded machine-definition
// modules and their dependency graph. All structural change goes through the
// Manager's add/update/remove operations; callers serialize mutations.
package workspace

import (
	"context"
	"log/slog"
	"sort"

	"github.com/machlink/machlink/pkg/graph"
	"github.com/machlink/machlink/pkg/resolve"
	"github.com/machlink/machlink/pkg/types"
)

// Manager is the sole owner of the dependency graph and module map.
type Manager struct {
	resolver resolve.ModuleResolver
	graph    *graph.DependencyGraph
	modules  map[types.ModuleID]*types.ModuleInfo
	sink     types.DiagnosticSink
	logger   *slog.Logger
}

func NewManager(resolver resolve.ModuleResolver, sink types.DiagnosticSink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		resolver: resolver,
		graph:    graph.NewDependencyGraph(),
		modules:  make(map[types.ModuleID]*types.ModuleInfo),
		sink:     types.SinkOrDiscard(sink),
		logger:   logger,
	}
}

// AddDocument registers a module: validates its import statements, resolves
// each import relative to the module's location, and records the dependency
// edges. Unresolvable imports surface as diagnostics, not hard failures, so
// one pass reports every problem. The error return is reserved for context
// cancellation.
func (m *Manager) AddDocument(ctx context.Context, mod *types.Module) error {
	m.graph.AddModule(mod.ID)
	info := &types.ModuleInfo{
		Module:        mod,
		ImportTargets: make(map[string]types.ModuleID),
	}

	seenAliases := make(map[string]bool)
	for _, stmt := range mod.Imports {
		if stmt.Path == "" {
			m.sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  "import path must not be empty",
				Module:   mod.ID,
				Property: "path",
			})
			continue
		}
		if len(stmt.Symbols) == 0 {
			m.sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  "import from " + stmt.Path + " names no symbols",
				Module:   mod.ID,
				Property: "symbols",
			})
		}
		m.validateAliases(mod.ID, stmt, seenAliases)

		resolved, err := m.resolver.Resolve(ctx, stmt.Path, mod.ID)
		if err != nil {
			return err
		}
		if resolved == nil {
			linkErr := types.NewModuleNotFound(stmt.Path, mod.ID)
			m.sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  linkErr.Message,
				Module:   mod.ID,
				Property: "path",
			})
			continue
		}

		info.Dependencies = append(info.Dependencies, resolved.ID)
		info.ImportTargets[stmt.Path] = resolved.ID
		m.graph.AddDependency(mod.ID, resolved.ID)
	}

	m.modules[mod.ID] = info
	m.logger.Debug("document added", "module", mod.ID, "dependencies", len(info.Dependencies))
	return nil
}

// UpdateDocument replaces a module wholesale. Remove+add is simpler invariant
// maintenance than patching the module and its edges in place.
func (m *Manager) UpdateDocument(ctx context.Context, mod *types.Module) error {
	m.RemoveDocument(mod.ID)
	return m.AddDocument(ctx, mod)
}

// RemoveDocument deletes the module and every edge referencing it in either
// direction.
func (m *Manager) RemoveDocument(id types.ModuleID) {
	if _, loaded := m.modules[id]; !loaded {
		return
	}
	delete(m.modules, id)
	m.graph.RemoveModule(id)
	m.logger.Debug("document removed", "module", id)
}

// Module returns the loaded module for id.
func (m *Manager) Module(id types.ModuleID) (*types.Module, bool) {
	info, ok := m.modules[id]
	if !ok {
		return nil, false
	}
	return info.Module, true
}

// Info returns the module plus its resolved dependency list.
func (m *Manager) Info(id types.ModuleID) (*types.ModuleInfo, bool) {
	info, ok := m.modules[id]
	return info, ok
}

// Modules returns the IDs of every loaded module, sorted.
func (m *Manager) Modules() []types.ModuleID {
	ids := make([]types.ModuleID, 0, len(m.modules))
	for id := range m.modules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DocumentsInOrder returns the loaded modules in a safe processing order:
// every module after all modules it depends on. Nil means the workspace is
// cyclic; callers must not link or merge and should surface the cycle
// diagnostic instead.
func (m *Manager) DocumentsInOrder() []types.ModuleID {
	order := m.graph.TopologicalSort()
	if order == nil {
		return nil
	}
	// The graph may hold placeholder nodes for resolved-but-unloaded targets;
	// processing order covers loaded documents only.
	out := make([]types.ModuleID, 0, len(m.modules))
	for _, id := range order {
		if _, loaded := m.modules[id]; loaded {
			out = append(out, id)
		}
	}
	return out
}

// DetectCycles reports every dependency cycle among loaded modules.
func (m *Manager) DetectCycles() [][]types.ModuleID {
	return m.graph.DetectCycles()
}

// HasPath reports dependency reachability between two modules.
func (m *Manager) HasPath(from, to types.ModuleID) bool {
	return m.graph.HasPath(from, to)
}

// Graph exposes the dependency graph for read-only queries.
func (m *Manager) Graph() *graph.DependencyGraph {
	return m.graph
}

func (m *Manager) validateAliases(id types.ModuleID, stmt types.ImportStatement, seen map[string]bool) {
	for _, sym := range stmt.Symbols {
		name := sym.EffectiveName()
		if name == "" {
			m.sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  "import alias must not be empty",
				Module:   id,
				Property: "symbols",
			})
			continue
		}
		if seen[name] {
			m.sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  "duplicate import alias " + name,
				Module:   id,
				Property: "symbols",
			})
			continue
		}
		seen[name] = true
	}
}
