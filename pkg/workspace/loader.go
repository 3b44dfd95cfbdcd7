package workspace

import (
	"context"

	"github.com/machlink/machlink/pkg/resolve"
	"github.com/machlink/machlink/pkg/types"
)

// LoadFunc folds resolved content into a Module, typically by parsing it.
type LoadFunc func(ctx context.Context, resolved *resolve.ResolvedModule) (*types.Module, error)

// LoadDocumentWithDependencies resolves entryPath, loads it via load, and
// recursively loads its transitive import closure. A visited set keeps
// loading-time reference cycles from recursing forever; this is deliberately
// more permissive than the linking-time cycle prohibition — a workspace can
// be fully loaded yet still unlinkable.
//
// An unresolvable entry is an error. Unresolvable transitive imports are
// skipped here: AddDocument has already reported them through the diagnostic
// sink, and loading continues so one pass surfaces every problem.
func (m *Manager) LoadDocumentWithDependencies(ctx context.Context, entryPath string, load LoadFunc) (types.ModuleID, error) {
	visited := make(map[types.ModuleID]bool)
	return m.loadRecursive(ctx, entryPath, "", load, visited, true)
}

func (m *Manager) loadRecursive(
	ctx context.Context,
	importPath string,
	from types.ModuleID,
	load LoadFunc,
	visited map[types.ModuleID]bool,
	isEntry bool,
) (types.ModuleID, error) {
	resolved, err := m.resolver.Resolve(ctx, importPath, from)
	if err != nil {
		return "", err
	}
	if resolved == nil {
		if isEntry {
			return "", types.NewModuleNotFound(importPath, from)
		}
		// Reported by AddDocument when the importer was registered.
		return "", nil
	}

	if visited[resolved.ID] {
		return resolved.ID, nil
	}
	visited[resolved.ID] = true

	if _, loaded := m.modules[resolved.ID]; loaded {
		return resolved.ID, nil
	}

	mod, err := load(ctx, resolved)
	if err != nil {
		return "", err
	}
	if err := m.AddDocument(ctx, mod); err != nil {
		return "", err
	}
	m.logger.Info("loaded document", "module", mod.ID, "imports", len(mod.Imports))

	for _, stmt := range mod.Imports {
		if stmt.Path == "" {
			continue
		}
		if _, err := m.loadRecursive(ctx, stmt.Path, mod.ID, load, visited, false); err != nil {
			return "", err
		}
	}
	return resolved.ID, nil
}
