package workspace

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machlink/machlink/pkg/parser"
	"github.com/machlink/machlink/pkg/resolve"
	"github.com/machlink/machlink/pkg/types"
)

func parseLoad(ctx context.Context, resolved *resolve.ResolvedModule) (*types.Module, error) {
	return parser.Parse(resolved.ID, resolved.Content)
}

// newVirtualWorkspace builds a Manager over an in-memory file set.
func newVirtualWorkspace(files map[string]string) (*Manager, *types.Collector) {
	sink := types.NewCollector()
	r := resolve.NewVirtualFSResolver(files, nil)
	return NewManager(r, sink, nil), sink
}

func TestManager_AddDocumentAndOrder(t *testing.T) {
	m, sink := newVirtualWorkspace(map[string]string{
		"a.mach": "machine: A\nstates:\n  - name: Start\n",
		"b.mach": `
machine: B
imports:
  - from: ./a.mach
    symbols: [Start]
states:
  - name: Main
`,
	})

	ctx := context.Background()
	_, err := m.LoadDocumentWithDependencies(ctx, "./b.mach", parseLoad)
	require.NoError(t, err)

	require.Len(t, m.Modules(), 2)
	assert.Empty(t, m.DetectCycles())
	assert.False(t, sink.HasErrors())

	order := m.DocumentsInOrder()
	require.Equal(t, []types.ModuleID{"a.mach", "b.mach"}, order)
}

func TestManager_CyclicWorkspaceHasNoOrder(t *testing.T) {
	m, _ := newVirtualWorkspace(map[string]string{
		"a.mach": `
machine: A
imports:
  - from: ./b.mach
    symbols: [Main]
states:
  - name: Start
`,
		"b.mach": `
machine: B
imports:
  - from: ./a.mach
    symbols: [Start]
states:
  - name: Main
`,
	})

	_, err := m.LoadDocumentWithDependencies(context.Background(), "./a.mach", parseLoad)
	require.NoError(t, err, "loading tolerates cycles that linking rejects")
	require.Len(t, m.Modules(), 2)

	cycles := m.DetectCycles()
	require.Len(t, cycles, 1)
	joined := ""
	for _, id := range cycles[0] {
		joined += string(id) + " "
	}
	assert.Contains(t, joined, "a.mach")
	assert.Contains(t, joined, "b.mach")

	assert.Nil(t, m.DocumentsInOrder())
}

func TestManager_SelfImportIsReported(t *testing.T) {
	m, _ := newVirtualWorkspace(map[string]string{
		"a.mach": `
machine: A
imports:
  - from: ./a.mach
    symbols: [Start]
states:
  - name: Start
`,
	})

	_, err := m.LoadDocumentWithDependencies(context.Background(), "./a.mach", parseLoad)
	require.NoError(t, err)

	cycles := m.DetectCycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []types.ModuleID{"a.mach", "a.mach"}, cycles[0])
	assert.Nil(t, m.DocumentsInOrder())
}

func TestManager_UpdateDocumentRewiresEdges(t *testing.T) {
	files := map[string]string{
		"a.mach": "machine: A\nstates:\n  - name: Start\n",
		"c.mach": "machine: C\nstates:\n  - name: Other\n",
		"b.mach": `
machine: B
imports:
  - from: ./a.mach
    symbols: [Start]
`,
	}
	m, _ := newVirtualWorkspace(files)
	ctx := context.Background()
	_, err := m.LoadDocumentWithDependencies(ctx, "./b.mach", parseLoad)
	require.NoError(t, err)
	require.Equal(t, []types.ModuleID{"a.mach"}, m.Graph().DependenciesOf("b.mach"))

	// Re-point b's import at c and update.
	updated, err := parser.Parse("b.mach", []byte(`
machine: B
imports:
  - from: ./c.mach
    symbols: [Other]
`))
	require.NoError(t, err)
	require.NoError(t, m.UpdateDocument(ctx, updated))

	assert.Equal(t, []types.ModuleID{"c.mach"}, m.Graph().DependenciesOf("b.mach"))
	assert.Empty(t, m.Graph().DependentsOf("a.mach"))
}

func TestManager_RemoveDocumentRetractsEdges(t *testing.T) {
	m, _ := newVirtualWorkspace(map[string]string{
		"a.mach": "machine: A\nstates:\n  - name: Start\n",
		"b.mach": `
machine: B
imports:
  - from: ./a.mach
    symbols: [Start]
`,
	})
	_, err := m.LoadDocumentWithDependencies(context.Background(), "./b.mach", parseLoad)
	require.NoError(t, err)

	m.RemoveDocument("b.mach")

	_, loaded := m.Module("b.mach")
	assert.False(t, loaded)
	assert.False(t, m.Graph().HasModule("b.mach"))
	assert.Empty(t, m.Graph().DependentsOf("a.mach"))
	assert.Equal(t, []types.ModuleID{"a.mach"}, m.DocumentsInOrder())
}

func TestManager_ImportValidationDiagnostics(t *testing.T) {
	m, sink := newVirtualWorkspace(map[string]string{
		"lib.mach": "machine: Lib\nstates:\n  - name: Start\n",
	})

	mod, err := parser.Parse("app.mach", []byte(`
machine: App
imports:
  - from: ""
    symbols: [X]
  - from: ./lib.mach
    symbols: []
  - from: ./lib.mach
    symbols: [Start, Start]
`))
	require.NoError(t, err)
	require.NoError(t, m.AddDocument(context.Background(), mod))

	var messages []string
	for _, d := range sink.Errors() {
		messages = append(messages, d.Message)
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "import path must not be empty")
	assert.Contains(t, joined, "names no symbols")
	assert.Contains(t, joined, "duplicate import alias Start")
}

func TestManager_MissingImportIsDiagnosticNotFailure(t *testing.T) {
	m, sink := newVirtualWorkspace(map[string]string{
		"app.mach": `
machine: App
imports:
  - from: ./missing.mach
    symbols: [Gone]
states:
  - name: Start
`,
	})

	id, err := m.LoadDocumentWithDependencies(context.Background(), "./app.mach", parseLoad)
	require.NoError(t, err)
	assert.Equal(t, types.ModuleID("app.mach"), id)

	require.True(t, sink.HasErrors())
	assert.Contains(t, sink.Errors()[0].Message, "module not found")

	// The workspace still loaded what it could.
	_, loaded := m.Module("app.mach")
	assert.True(t, loaded)
}

func TestManager_MissingEntryIsAnError(t *testing.T) {
	m, _ := newVirtualWorkspace(nil)

	_, err := m.LoadDocumentWithDependencies(context.Background(), "./missing.mach", parseLoad)
	require.Error(t, err)

	var linkErr *types.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, types.ModuleNotFound, linkErr.Type)
}

func TestManager_ParseFailurePropagates(t *testing.T) {
	m, _ := newVirtualWorkspace(map[string]string{
		"bad.mach": "machine: [unterminated",
	})

	_, err := m.LoadDocumentWithDependencies(context.Background(), "./bad.mach", parseLoad)
	var linkErr *types.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, types.ModuleParse, linkErr.Type)
}

func TestManager_DiamondLoadsEachModuleOnce(t *testing.T) {
	m, sink := newVirtualWorkspace(map[string]string{
		"a.mach": "machine: A\nstates:\n  - name: Base\n",
		"b.mach": `
machine: B
imports:
  - from: ./a.mach
    symbols: [Base]
states:
  - name: Left
`,
		"c.mach": `
machine: C
imports:
  - from: ./a.mach
    symbols: [Base]
states:
  - name: Right
`,
		"d.mach": `
machine: D
imports:
  - from: ./b.mach
    symbols: [Left]
  - from: ./c.mach
    symbols: [Right]
`,
	})

	_, err := m.LoadDocumentWithDependencies(context.Background(), "./d.mach", parseLoad)
	require.NoError(t, err)
	assert.False(t, sink.HasErrors())
	require.Len(t, m.Modules(), 4)

	order := m.DocumentsInOrder()
	require.NotNil(t, order)
	assert.Equal(t, types.ModuleID("a.mach"), order[0])
	assert.Equal(t, types.ModuleID("d.mach"), order[len(order)-1])
}
