package graph

import (
	"sort"

	"github.com/machlink/machlink/pkg/types"
)

// DependencyGraph is a directed graph over module identifiers. It is
// resolver-agnostic: nodes are added by ID and edges mean "From requires
// symbols from To". Every mutation keeps the dependencies/dependents sets
// symmetric.
type DependencyGraph struct {
	nodes map[types.ModuleID]*ModuleNode
}

// ModuleNode is a single module in the dependency graph.
type ModuleNode struct {
	ID           types.ModuleID
	Dependencies map[types.ModuleID]*ModuleNode
	Dependents   map[types.ModuleID]*ModuleNode
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[types.ModuleID]*ModuleNode),
	}
}

// AddModule registers a module node. Adding an existing module is a no-op
// that returns the existing node.
func (g *DependencyGraph) AddModule(id types.ModuleID) *ModuleNode {
	if node, exists := g.nodes[id]; exists {
		return node
	}
	node := &ModuleNode{
		ID:           id,
		Dependencies: make(map[types.ModuleID]*ModuleNode),
		Dependents:   make(map[types.ModuleID]*ModuleNode),
	}
	g.nodes[id] = node
	return node
}

// AddDependency records the edge from → to. Missing endpoints are created so
// the symmetry invariant holds even during out-of-order loading.
func (g *DependencyGraph) AddDependency(from, to types.ModuleID) {
	fromNode := g.AddModule(from)
	toNode := g.AddModule(to)
	fromNode.Dependencies[to] = toNode
	toNode.Dependents[from] = fromNode
}

// RemoveDependency retracts the edge from → to in both directions.
func (g *DependencyGraph) RemoveDependency(from, to types.ModuleID) {
	if fromNode, exists := g.nodes[from]; exists {
		delete(fromNode.Dependencies, to)
	}
	if toNode, exists := g.nodes[to]; exists {
		delete(toNode.Dependents, from)
	}
}

// RemoveModule deletes a module and every edge referencing it in either
// direction.
func (g *DependencyGraph) RemoveModule(id types.ModuleID) {
	node, exists := g.nodes[id]
	if !exists {
		return
	}
	for _, dep := range node.Dependencies {
		delete(dep.Dependents, id)
	}
	for _, dependent := range node.Dependents {
		delete(dependent.Dependencies, id)
	}
	delete(g.nodes, id)
}

// HasModule reports whether the module is registered.
func (g *DependencyGraph) HasModule(id types.ModuleID) bool {
	_, exists := g.nodes[id]
	return exists
}

// Modules returns every registered module ID, sorted.
func (g *DependencyGraph) Modules() []types.ModuleID {
	return sortedIDs(g.nodes)
}

// DependenciesOf returns the direct dependencies of a module, sorted.
func (g *DependencyGraph) DependenciesOf(id types.ModuleID) []types.ModuleID {
	if node, exists := g.nodes[id]; exists {
		return sortedIDs(node.Dependencies)
	}
	return nil
}

// DependentsOf returns the modules that directly depend on id, sorted.
func (g *DependencyGraph) DependentsOf(id types.ModuleID) []types.ModuleID {
	if node, exists := g.nodes[id]; exists {
		return sortedIDs(node.Dependents)
	}
	return nil
}

// DetectCycles finds every cycle reachable through dependency edges.
// Each cycle is reported as a closed walk: the recursion-stack slice from the
// repeated node's first occurrence to the current node, closed by
// re-appending the repeated node. A self-loop is a valid length-1 cycle.
// Traversal continues after recording a cycle so independent cycles all
// surface in one pass.
func (g *DependencyGraph) DetectCycles() [][]types.ModuleID {
	var cycles [][]types.ModuleID
	visited := make(map[types.ModuleID]bool)
	recStack := make(map[types.ModuleID]bool)
	seen := make(map[string]bool)

	var dfs func(id types.ModuleID, path []types.ModuleID)
	dfs = func(id types.ModuleID, path []types.ModuleID) {
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		for _, dep := range g.DependenciesOf(id) {
			if recStack[dep] {
				start := 0
				for i, p := range path {
					if p == dep {
						start = i
						break
					}
				}
				cycle := append(append([]types.ModuleID{}, path[start:]...), dep)
				if key := cycleKey(cycle); !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
				continue
			}
			if !visited[dep] {
				dfs(dep, path)
			}
		}

		recStack[id] = false
	}

	for _, id := range g.Modules() {
		if !visited[id] {
			dfs(id, nil)
		}
	}
	return cycles
}

// TopologicalSort returns the modules ordered so every module appears after
// all modules it depends on. The cycle check is authoritative and runs
// first: the result is nil whenever DetectCycles is non-empty.
func (g *DependencyGraph) TopologicalSort() []types.ModuleID {
	if len(g.DetectCycles()) > 0 {
		return nil
	}

	order := make([]types.ModuleID, 0, len(g.nodes))
	visited := make(map[types.ModuleID]bool)

	var visit func(id types.ModuleID)
	visit = func(id types.ModuleID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range g.DependenciesOf(id) {
			visit(dep)
		}
		order = append(order, id)
	}

	for _, id := range g.Modules() {
		visit(id)
	}
	return order
}

// HasPath reports whether to is reachable from from over dependency edges,
// using a breadth-first search.
func (g *DependencyGraph) HasPath(from, to types.ModuleID) bool {
	if !g.HasModule(from) || !g.HasModule(to) {
		return false
	}
	if from == to {
		return true
	}

	visited := map[types.ModuleID]bool{from: true}
	queue := []types.ModuleID{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.DependenciesOf(current) {
			if dep == to {
				return true
			}
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return false
}

// cycleKey normalizes a closed walk so the same cycle entered from different
// roots deduplicates. The closing repeat is dropped and the cycle rotated to
// start at its smallest ID.
func cycleKey(cycle []types.ModuleID) string {
	walk := cycle[:len(cycle)-1]
	min := 0
	for i := range walk {
		if walk[i] < walk[min] {
			min = i
		}
	}
	key := ""
	for i := range walk {
		key += string(walk[(min+i)%len(walk)]) + "\x00"
	}
	return key
}

func sortedIDs[V any](m map[types.ModuleID]V) []types.ModuleID {
	ids := make([]types.ModuleID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
