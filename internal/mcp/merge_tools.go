package mcp

import (
	"context"
	"sort"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/machlink/machlink/pkg/link"
	"github.com/machlink/machlink/pkg/merge"
	"github.com/machlink/machlink/pkg/types"
)

// --- merge_machine ---

type MergeMachineInput struct {
	Entry string `json:"entry" jsonschema:"module id of the entry machine to flatten"`
}

type MergedSymbolView struct {
	Name         string `json:"name"`
	SourceFile   string `json:"source_file"`
	OriginalName string `json:"original_name,omitempty"`
}

type MergedEdgeView struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Event string `json:"event"`
}

type MergeMachineOutput struct {
	Entry       string             `json:"entry"`
	Symbols     []MergedSymbolView `json:"symbols"`
	Edges       []MergedEdgeView   `json:"edges"`
	SourceFiles []string           `json:"source_files"`
}

// --- resolve_reference ---

type ResolveReferenceInput struct {
	Module string `json:"module" jsonschema:"module id the reference appears in"`
	Name   string `json:"name" jsonschema:"referenced definition name"`
}

type ResolveReferenceOutput struct {
	Module        string `json:"module"`
	Name          string `json:"name"`
	QualifiedName string `json:"qualified_name"`
	Kind          string `json:"kind"`
}

// --- visible_symbols ---

type VisibleSymbolsInput struct {
	Module string `json:"module" jsonschema:"module id to compute the import scope for"`
}

type VisibleSymbolView struct {
	EffectiveName string `json:"effective_name"`
	Origin        string `json:"origin"`
	OriginalName  string `json:"original_name"`
}

type VisibleSymbolsOutput struct {
	Module  string              `json:"module"`
	Symbols []VisibleSymbolView `json:"symbols"`
}

func registerMergeTools(s *mcpsdk.Server, state *MCPServer) {
	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "merge_machine",
		Description: "Flatten an entry machine and its transitive imports into one consolidated graph with per-symbol provenance.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in MergeMachineInput) (*mcpsdk.CallToolResult, any, error) {
		state.RLock()
		defer state.RUnlock()

		m, err := state.Manager()
		if err != nil {
			return errResult(err), nil, nil
		}
		res, err := merge.NewMerger(m, state.Diagnostics(), state.logger).MergeMachines(types.ModuleID(in.Entry))
		if err != nil {
			return errResult(err), nil, nil
		}

		out := MergeMachineOutput{Entry: in.Entry}
		for name, prov := range res.SourceMap {
			out.Symbols = append(out.Symbols, MergedSymbolView{
				Name:         name,
				SourceFile:   string(prov.SourceFile),
				OriginalName: prov.OriginalName,
			})
		}
		sort.Slice(out.Symbols, func(i, j int) bool { return out.Symbols[i].Name < out.Symbols[j].Name })
		for _, e := range res.Graph.Edges {
			out.Edges = append(out.Edges, MergedEdgeView{From: e.From, To: e.To, Event: e.Event})
		}
		for _, f := range res.SourceFiles {
			out.SourceFiles = append(out.SourceFiles, string(f))
		}
		return textResult(out), nil, nil
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "resolve_reference",
		Description: "Resolve a definition name from a module's point of view: local definitions first, then its imports.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in ResolveReferenceInput) (*mcpsdk.CallToolResult, any, error) {
		state.RLock()
		defer state.RUnlock()

		m, err := state.Manager()
		if err != nil {
			return errResult(err), nil, nil
		}
		node, err := link.NewLinker(m).ResolveReference(types.ModuleID(in.Module), in.Name)
		if err != nil {
			return errResult(err), nil, nil
		}
		return textResult(ResolveReferenceOutput{
			Module:        in.Module,
			Name:          in.Name,
			QualifiedName: node.QualifiedName(),
			Kind:          node.Kind.String(),
		}), nil, nil
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "visible_symbols",
		Description: "Return the imported symbols visible to a module, keyed by effective alias.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in VisibleSymbolsInput) (*mcpsdk.CallToolResult, any, error) {
		state.RLock()
		defer state.RUnlock()

		m, err := state.Manager()
		if err != nil {
			return errResult(err), nil, nil
		}
		scope, err := link.NewScopeMerger(m, state.Diagnostics()).VisibleSymbols(types.ModuleID(in.Module))
		if err != nil {
			return errResult(err), nil, nil
		}
		out := VisibleSymbolsOutput{Module: in.Module}
		for _, entry := range scope {
			out.Symbols = append(out.Symbols, VisibleSymbolView{
				EffectiveName: entry.EffectiveName,
				Origin:        string(entry.Origin),
				OriginalName:  entry.OriginalName,
			})
		}
		sort.Slice(out.Symbols, func(i, j int) bool { return out.Symbols[i].EffectiveName < out.Symbols[j].EffectiveName })
		return textResult(out), nil, nil
	})
}
