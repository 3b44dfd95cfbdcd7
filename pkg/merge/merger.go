// Package merge flattens an entry module and its transitive import closure
// into one consolidated machine graph, tagged with provenance so downstream
// diagnostics can point back at the contributing source files.
package merge

import (
	"log/slog"
	"sort"

	"github.com/machlink/machlink/pkg/types"
	"github.com/machlink/machlink/pkg/workspace"
)

// Provenance records which source file (and, when renamed, which original
// name) a merged symbol came from.
type Provenance struct {
	SourceFile   types.ModuleID
	OriginalName string // empty when the symbol kept its name
}

// MergedGraph is the consolidated node/edge view of a flattened machine.
// Every node is a deep clone owned by the graph; originals stay owned by
// their modules.
type MergedGraph struct {
	Nodes map[string]*types.Node
	Edges []Edge
}

// Edge is one transition between merged definitions.
type Edge struct {
	From  string
	To    string
	Event string
}

// Result is the output of MergeMachines.
type Result struct {
	Graph       *MergedGraph
	SourceMap   map[string]Provenance
	SourceFiles []types.ModuleID
}

// Merger walks a loaded workspace and produces flattened machines.
type Merger struct {
	ws     *workspace.Manager
	sink   types.DiagnosticSink
	logger *slog.Logger
}

func NewMerger(ws *workspace.Manager, sink types.DiagnosticSink, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		ws:     ws,
		sink:   types.SinkOrDiscard(sink),
		logger: logger,
	}
}

// MergeMachines flattens the entry module and its transitive imports.
// It fails when the entry point is not loaded or the workspace is cyclic —
// an explicit rejection, never a partial merge. A missing imported symbol is
// a SymbolNotFound error: there is no defined output without it.
func (m *Merger) MergeMachines(entry types.ModuleID) (*Result, error) {
	info, ok := m.ws.Info(entry)
	if !ok {
		return nil, types.NewModuleNotFound(string(entry), "")
	}

	if cycles := m.ws.DetectCycles(); len(cycles) > 0 {
		err := types.NewCircularDependency(cycles[0])
		for _, cycle := range cycles {
			m.sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  types.NewCircularDependency(cycle).Message,
				Module:   entry,
			})
		}
		return nil, err
	}

	res := &Result{
		Graph:     &MergedGraph{Nodes: make(map[string]*types.Node)},
		SourceMap: make(map[string]Provenance),
	}

	// The entry module's own definitions come first so they always win
	// against same-named imports.
	for _, node := range info.Module.Document.Nodes {
		m.addSymbol(res, node.Name, node, entry, "")
	}

	visited := make(map[types.ModuleID]bool)
	if err := m.mergeImports(entry, visited, res); err != nil {
		return nil, err
	}

	m.buildEdges(res)
	m.logger.Debug("merged machine",
		"entry", entry,
		"symbols", len(res.Graph.Nodes),
		"sources", len(res.SourceFiles),
	)
	return res, nil
}

// mergeImports clones the symbols each import statement references, then
// recurses into the imported module's own imports. The visited set keyed by
// ModuleID makes diamond-shaped import graphs contribute each symbol
// exactly once.
func (m *Merger) mergeImports(id types.ModuleID, visited map[types.ModuleID]bool, res *Result) error {
	if visited[id] {
		return nil
	}
	visited[id] = true
	res.SourceFiles = append(res.SourceFiles, id)

	info, ok := m.ws.Info(id)
	if !ok {
		return types.NewModuleNotFound(string(id), "")
	}

	for _, stmt := range info.Module.Imports {
		origin, resolved := info.ImportTargets[stmt.Path]
		if !resolved {
			return types.NewModuleNotFound(stmt.Path, id)
		}
		originMod, loaded := m.ws.Module(origin)
		if !loaded {
			return types.NewModuleNotFound(stmt.Path, id)
		}

		for _, sym := range stmt.Symbols {
			node := originMod.Document.FindNode(sym.Name)
			if node == nil {
				return types.NewSymbolNotFound(sym.Name, origin, id)
			}
			m.addSymbol(res, sym.EffectiveName(), node, origin, sym.Name)
		}

		if err := m.mergeImports(origin, visited, res); err != nil {
			return err
		}
	}
	return nil
}

// addSymbol clones node into the merged graph under name. A re-arrival of
// the same origin symbol (the diamond case) is skipped silently; a genuine
// collision keeps the first registration and raises a diagnostic.
func (m *Merger) addSymbol(res *Result, name string, node *types.Node, source types.ModuleID, originalName string) {
	if originalName == name {
		originalName = ""
	}
	if existing, ok := res.SourceMap[name]; ok {
		if existing.SourceFile == source && existing.OriginalName == originalName {
			return
		}
		linkErr := types.NewSymbolCollision(name, source)
		m.sink.Accept(types.Diagnostic{
			Severity: types.SeverityError,
			Message:  linkErr.Message,
			Module:   source,
			Node:     node,
		})
		return
	}

	clone := node.Clone()
	clone.Name = name
	res.Graph.Nodes[name] = clone
	res.SourceMap[name] = Provenance{SourceFile: source, OriginalName: originalName}
}

// buildEdges materializes transitions between merged definitions. Targets
// that did not make it into the merged node set are left out; reachability
// analysis downstream reports them.
func (m *Merger) buildEdges(res *Result) {
	names := make([]string, 0, len(res.Graph.Nodes))
	for name := range res.Graph.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, t := range res.Graph.Nodes[name].Transitions {
			if _, ok := res.Graph.Nodes[t.Target]; ok {
				res.Graph.Edges = append(res.Graph.Edges, Edge{
					From:  name,
					To:    t.Target,
					Event: t.Event,
				})
			}
		}
	}
}
