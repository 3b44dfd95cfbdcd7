package graph

import (
	"testing"

	"github.com/machlink/machlink/pkg/types"
)

func TestNewDependencyGraph(t *testing.T) {
	g := NewDependencyGraph()
	if g == nil {
		t.Fatal("Expected NewDependencyGraph to return a non-nil graph")
	}
	if len(g.Modules()) != 0 {
		t.Errorf("Expected empty graph, got %d modules", len(g.Modules()))
	}
}

func TestDependencyGraph_AddDependencySymmetry(t *testing.T) {
	g := NewDependencyGraph()
	g.AddModule("a.mach")
	g.AddModule("b.mach")
	g.AddDependency("a.mach", "b.mach")

	deps := g.DependenciesOf("a.mach")
	if len(deps) != 1 || deps[0] != "b.mach" {
		t.Errorf("Expected a.mach to depend on b.mach, got %v", deps)
	}
	dependents := g.DependentsOf("b.mach")
	if len(dependents) != 1 || dependents[0] != "a.mach" {
		t.Errorf("Expected b.mach dependents to contain a.mach, got %v", dependents)
	}
}

func TestDependencyGraph_AddDependencyCreatesMissingNodes(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.mach", "b.mach")

	if !g.HasModule("a.mach") || !g.HasModule("b.mach") {
		t.Fatal("Expected AddDependency to create missing endpoints")
	}
	assertSymmetric(t, g)
}

func TestDependencyGraph_RemoveDependency(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.mach", "b.mach")
	g.RemoveDependency("a.mach", "b.mach")

	if len(g.DependenciesOf("a.mach")) != 0 {
		t.Error("Expected dependency to be removed")
	}
	if len(g.DependentsOf("b.mach")) != 0 {
		t.Error("Expected reverse dependent entry to be removed")
	}
	assertSymmetric(t, g)
}

func TestDependencyGraph_RemoveModuleRetractsAllEdges(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.mach", "b.mach")
	g.AddDependency("b.mach", "c.mach")
	g.AddDependency("d.mach", "b.mach")

	g.RemoveModule("b.mach")

	if g.HasModule("b.mach") {
		t.Fatal("Expected b.mach to be removed")
	}
	if len(g.DependenciesOf("a.mach")) != 0 {
		t.Error("Expected a.mach to have no dependencies after removal")
	}
	if len(g.DependentsOf("c.mach")) != 0 {
		t.Error("Expected c.mach to have no dependents after removal")
	}
	if len(g.DependenciesOf("d.mach")) != 0 {
		t.Error("Expected d.mach to have no dependencies after removal")
	}
	assertSymmetric(t, g)
}

func TestDependencyGraph_RemoveAndReAddRoundTrip(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.mach", "b.mach")
	g.AddDependency("b.mach", "c.mach")

	g.RemoveModule("b.mach")
	g.AddModule("b.mach")
	g.AddDependency("a.mach", "b.mach")
	g.AddDependency("b.mach", "c.mach")

	order := g.TopologicalSort()
	if order == nil {
		t.Fatal("Expected acyclic graph after round trip")
	}
	assertBefore(t, order, "c.mach", "b.mach")
	assertBefore(t, order, "b.mach", "a.mach")
	assertSymmetric(t, g)
}

func TestDependencyGraph_DetectCycles(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.mach", "b.mach")
	g.AddDependency("b.mach", "a.mach")

	cycles := g.DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	cycle := cycles[0]
	if len(cycle) != 3 {
		t.Fatalf("Expected closed walk of length 3, got %v", cycle)
	}
	if cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("Expected cycle to be closed, got %v", cycle)
	}
}

func TestDependencyGraph_DetectCyclesMultipleIndependent(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.mach", "b.mach")
	g.AddDependency("b.mach", "a.mach")
	g.AddDependency("x.mach", "y.mach")
	g.AddDependency("y.mach", "x.mach")

	cycles := g.DetectCycles()
	if len(cycles) != 2 {
		t.Fatalf("Expected 2 independent cycles, got %d: %v", len(cycles), cycles)
	}
}

func TestDependencyGraph_SelfLoopIsLengthOneCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.mach", "a.mach")

	cycles := g.DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected self-loop to be reported, got %v", cycles)
	}
	if len(cycles[0]) != 2 || cycles[0][0] != "a.mach" || cycles[0][1] != "a.mach" {
		t.Errorf("Expected closed walk [a.mach a.mach], got %v", cycles[0])
	}
	if g.TopologicalSort() != nil {
		t.Error("Expected nil order for self-importing module")
	}
}

func TestDependencyGraph_DetectCyclesIdempotent(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.mach", "b.mach")
	g.AddDependency("b.mach", "c.mach")
	g.AddDependency("c.mach", "a.mach")

	first := g.DetectCycles()
	second := g.DetectCycles()
	if len(first) != len(second) {
		t.Fatalf("Expected idempotent cycle detection, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Errorf("Cycle %d changed between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestDependencyGraph_TopologicalSortNilIffCyclic(t *testing.T) {
	g := NewDependencyGraph()

	// An empty workspace has no cycles, so the order must be an empty
	// slice rather than nil.
	if len(g.DetectCycles()) != 0 {
		t.Fatal("Expected no cycles in an empty graph")
	}
	if got := g.TopologicalSort(); got == nil {
		t.Fatal("Expected non-nil order for empty graph")
	} else if len(got) != 0 {
		t.Fatalf("Expected empty order for empty graph, got %v", got)
	}

	g.AddDependency("b.mach", "a.mach")

	if got := g.TopologicalSort(); got == nil {
		t.Fatal("Expected order for acyclic graph")
	}
	if len(g.DetectCycles()) != 0 {
		t.Fatal("Expected no cycles for acyclic graph")
	}

	g.AddDependency("a.mach", "b.mach")
	if got := g.TopologicalSort(); got != nil {
		t.Fatalf("Expected nil order for cyclic graph, got %v", got)
	}
	if len(g.DetectCycles()) == 0 {
		t.Fatal("Expected cycles for cyclic graph")
	}
}

func TestDependencyGraph_TopologicalSortOrderProperty(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("d.mach", "b.mach")
	g.AddDependency("d.mach", "c.mach")
	g.AddDependency("b.mach", "a.mach")
	g.AddDependency("c.mach", "a.mach")
	g.AddModule("standalone.mach")

	order := g.TopologicalSort()
	if order == nil {
		t.Fatal("Expected order for acyclic graph")
	}
	if len(order) != 5 {
		t.Fatalf("Expected 5 modules in order, got %d", len(order))
	}
	for _, id := range order {
		pos := indexOf(order, id)
		for _, dep := range g.DependenciesOf(id) {
			if indexOf(order, dep) > pos {
				t.Errorf("Expected %s before its dependent %s in %v", dep, id, order)
			}
		}
	}
}

func TestDependencyGraph_ZeroImportModule(t *testing.T) {
	g := NewDependencyGraph()
	g.AddModule("lone.mach")

	if len(g.DependenciesOf("lone.mach")) != 0 {
		t.Error("Expected empty dependency set")
	}
	order := g.TopologicalSort()
	if len(order) != 1 || order[0] != "lone.mach" {
		t.Errorf("Expected trivial order, got %v", order)
	}
}

func TestDependencyGraph_HasPath(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a.mach", "b.mach")
	g.AddDependency("b.mach", "c.mach")
	g.AddModule("d.mach")

	if !g.HasPath("a.mach", "c.mach") {
		t.Error("Expected path a → c via b")
	}
	if g.HasPath("c.mach", "a.mach") {
		t.Error("Expected no reverse path")
	}
	if g.HasPath("a.mach", "d.mach") {
		t.Error("Expected no path to disconnected module")
	}
	if g.HasPath("a.mach", "missing.mach") {
		t.Error("Expected no path to unknown module")
	}
}

// assertSymmetric checks the core invariant: every dependency edge has a
// matching reverse dependent entry and vice versa.
func assertSymmetric(t *testing.T, g *DependencyGraph) {
	t.Helper()
	for _, id := range g.Modules() {
		for _, dep := range g.DependenciesOf(id) {
			if indexOf(g.DependentsOf(dep), id) < 0 {
				t.Errorf("Edge %s → %s has no reverse dependent entry", id, dep)
			}
		}
		for _, dependent := range g.DependentsOf(id) {
			if indexOf(g.DependenciesOf(dependent), id) < 0 {
				t.Errorf("Dependent entry %s of %s has no forward edge", dependent, id)
			}
		}
	}
}

func assertBefore(t *testing.T, order []types.ModuleID, first, second types.ModuleID) {
	t.Helper()
	i, j := indexOf(order, first), indexOf(order, second)
	if i < 0 || j < 0 || i >= j {
		t.Errorf("Expected %s before %s in %v", first, second, order)
	}
}

func indexOf(ids []types.ModuleID, id types.ModuleID) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}
