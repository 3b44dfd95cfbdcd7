package link

import (
	"github.com/machlink/machlink/pkg/types"
	"github.com/machlink/machlink/pkg/workspace"
)

// Linker resolves a single dangling reference inside a module: local
// definitions first, then the module's imports. It never invents success —
// when no import claims the name, the original local failure passes
// through unchanged.
type Linker struct {
	ws *workspace.Manager
}

func NewLinker(ws *workspace.Manager) *Linker {
	return &Linker{ws: ws}
}

// ResolveReference resolves name from the point of view of the given module.
func (l *Linker) ResolveReference(id types.ModuleID, name string) (*types.Node, error) {
	info, ok := l.ws.Info(id)
	if !ok {
		return nil, types.NewModuleNotFound(string(id), "")
	}

	if node := info.Module.Document.FindNode(name); node != nil {
		return node, nil
	}
	localErr := types.NewSymbolNotFound(name, id, id)

	for _, stmt := range info.Module.Imports {
		for _, sym := range stmt.Symbols {
			if sym.EffectiveName() != name {
				continue
			}
			origin, resolved := info.ImportTargets[stmt.Path]
			if !resolved {
				continue
			}
			// Origin modules are loaded before their dependents by the
			// topological ordering guarantee.
			originMod, loaded := l.ws.Module(origin)
			if !loaded {
				continue
			}
			if node := originMod.Document.FindNode(sym.Name); node != nil {
				return node, nil
			}
			return nil, types.NewSymbolNotFound(sym.Name, origin, id)
		}
	}

	return nil, localErr
}
