// Package link computes cross-file symbol visibility and resolves dangling
// references through imports. It runs only after the workspace has a valid
// topological order, so every origin module is guaranteed loaded.
package link

import (
	"github.com/machlink/machlink/pkg/types"
	"github.com/machlink/machlink/pkg/workspace"
)

// ScopeEntry is one externally visible symbol of a module.
type ScopeEntry struct {
	EffectiveName string
	Origin        types.ModuleID
	OriginalName  string
	Node          *types.Node
}

// ScopeMerger computes which imported symbols are visible to a module and
// under what alias. Collisions and missing symbols go through the
// diagnostic sink so a single pass surfaces every issue.
type ScopeMerger struct {
	ws   *workspace.Manager
	sink types.DiagnosticSink
}

func NewScopeMerger(ws *workspace.Manager, sink types.DiagnosticSink) *ScopeMerger {
	return &ScopeMerger{
		ws:   ws,
		sink: types.SinkOrDiscard(sink),
	}
}

// VisibleSymbols returns the imported symbols visible to the module, keyed
// by effective alias.
//
// Local definitions always take priority: imports fill gaps, never shadow
// locals, so editing a sibling file can never silently change a file's own
// meaning. An import colliding with a local name or an earlier registration
// raises a SymbolCollision diagnostic and is skipped; processing continues
// so all collisions surface, not just the first.
func (s *ScopeMerger) VisibleSymbols(id types.ModuleID) (map[string]ScopeEntry, error) {
	info, ok := s.ws.Info(id)
	if !ok {
		return nil, types.NewModuleNotFound(string(id), "")
	}

	local := make(map[string]bool)
	for _, name := range info.Module.Document.LocalNames() {
		local[name] = true
	}

	scope := make(map[string]ScopeEntry)
	for _, stmt := range info.Module.Imports {
		origin, resolved := info.ImportTargets[stmt.Path]
		if !resolved {
			continue // already reported when the document was registered
		}
		originMod, loaded := s.ws.Module(origin)
		if !loaded {
			continue
		}

		for _, sym := range stmt.Symbols {
			alias := sym.EffectiveName()
			if alias == "" {
				continue
			}

			matches := originMod.Document.FindNodes(sym.Name)
			if len(matches) == 0 {
				linkErr := types.NewSymbolNotFound(sym.Name, origin, id)
				s.sink.Accept(types.Diagnostic{
					Severity: types.SeverityError,
					Message:  linkErr.Message,
					Module:   id,
					Property: "symbols",
				})
				continue
			}
			if len(matches) > 1 {
				s.sink.Accept(types.Diagnostic{
					Severity: types.SeverityHint,
					Message:  "symbol " + sym.Name + " matches multiple definitions in " + string(origin) + "; first declaration wins",
					Module:   id,
					Node:     matches[0],
					Property: "symbols",
				})
			}
			node := matches[0]

			if local[alias] {
				s.acceptCollision(id, alias, node)
				continue
			}
			if _, taken := scope[alias]; taken {
				s.acceptCollision(id, alias, node)
				continue
			}

			scope[alias] = ScopeEntry{
				EffectiveName: alias,
				Origin:        origin,
				OriginalName:  sym.Name,
				Node:          node,
			}
		}
	}
	return scope, nil
}

func (s *ScopeMerger) acceptCollision(id types.ModuleID, alias string, node *types.Node) {
	linkErr := types.NewSymbolCollision(alias, id)
	s.sink.Accept(types.Diagnostic{
		Severity: types.SeverityError,
		Message:  linkErr.Message,
		Module:   id,
		Node:     node,
		Property: "symbols",
	})
}
