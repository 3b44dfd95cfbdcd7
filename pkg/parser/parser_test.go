package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machlink/machlink/pkg/types"
)

const sampleDoc = `
machine: TrafficLight
imports:
  - from: ./lib.mach
    symbols:
      - Green
      - Red as StopLight
      - Traffic.Amber
states:
  - name: Idle
    initial: true
    on:
      go: Running
  - name: Running
    on:
      stop: Idle
      pause: Paused
    states:
      - name: Paused
tasks:
  - name: Fetch
    on:
      done: Idle
contexts:
  - name: Session
`

func TestParse(t *testing.T) {
	mod, err := Parse("app.mach", []byte(sampleDoc))
	require.NoError(t, err)
	require.NotNil(t, mod.Document)

	assert.Equal(t, types.ModuleID("app.mach"), mod.ID)
	assert.Equal(t, "TrafficLight", mod.Document.Title)

	require.Len(t, mod.Imports, 1)
	imp := mod.Imports[0]
	assert.Equal(t, "./lib.mach", imp.Path)
	require.Len(t, imp.Symbols, 3)
	assert.Equal(t, types.ImportedSymbol{Name: "Green"}, imp.Symbols[0])
	assert.Equal(t, types.ImportedSymbol{Name: "Red", Alias: "StopLight"}, imp.Symbols[1])
	assert.Equal(t, "StopLight", imp.Symbols[1].EffectiveName())
	assert.Equal(t, "Amber", imp.Symbols[2].EffectiveName())

	require.Len(t, mod.Document.Nodes, 4)
	assert.Equal(t, []string{"Idle", "Running", "Fetch", "Session"}, mod.Document.LocalNames())

	idle := mod.Document.Nodes[0]
	assert.True(t, idle.Initial)
	assert.Equal(t, types.StateNode, idle.Kind)
	require.Len(t, idle.Transitions, 1)
	assert.Equal(t, types.Transition{Event: "go", Target: "Running"}, idle.Transitions[0])

	running := mod.Document.Nodes[1]
	// Transitions sorted by event for determinism.
	require.Len(t, running.Transitions, 2)
	assert.Equal(t, "pause", running.Transitions[0].Event)
	assert.Equal(t, "stop", running.Transitions[1].Event)

	require.Len(t, running.Children, 1)
	paused := running.Children[0]
	assert.Same(t, running, paused.Parent)
	assert.Equal(t, "Running.Paused", paused.QualifiedName())

	assert.Equal(t, types.TaskNode, mod.Document.Nodes[2].Kind)
	assert.Equal(t, types.ContextNode, mod.Document.Nodes[3].Kind)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse("bad.mach", []byte("machine: [unterminated"))
	require.Error(t, err)

	var linkErr *types.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, types.ModuleParse, linkErr.Type)
	assert.Equal(t, types.ModuleID("bad.mach"), linkErr.From)
}

func TestParse_MalformedSymbol(t *testing.T) {
	doc := `
machine: M
imports:
  - from: ./lib.mach
    symbols:
      - "A as "
`
	_, err := Parse("m.mach", []byte(doc))
	var linkErr *types.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, types.ModuleParse, linkErr.Type)
}

func TestFindNode(t *testing.T) {
	mod, err := Parse("app.mach", []byte(sampleDoc))
	require.NoError(t, err)

	doc := mod.Document
	assert.Equal(t, "Idle", doc.FindNode("Idle").Name)
	assert.Nil(t, doc.FindNode("Missing"))

	// Dotted lookup: exact qualified match first, then last-segment match.
	paused := doc.FindNode("Running.Paused")
	require.NotNil(t, paused)
	assert.Equal(t, "Paused", paused.Name)
	assert.Same(t, paused, doc.FindNode("Paused"))
}

func TestNodeCloneDoesNotFollowParent(t *testing.T) {
	mod, err := Parse("app.mach", []byte(sampleDoc))
	require.NoError(t, err)

	paused := mod.Document.FindNode("Paused")
	require.NotNil(t, paused.Parent)

	clone := paused.Clone()
	assert.Nil(t, clone.Parent)
	assert.Equal(t, paused.Name, clone.Name)

	running := mod.Document.FindNode("Running")
	clone = running.Clone()
	require.Len(t, clone.Children, 1)
	assert.NotSame(t, running.Children[0], clone.Children[0])
	assert.Same(t, clone, clone.Children[0].Parent)

	// Mutating the clone leaves the original untouched.
	clone.Children[0].Name = "Renamed"
	assert.Equal(t, "Paused", running.Children[0].Name)
}
