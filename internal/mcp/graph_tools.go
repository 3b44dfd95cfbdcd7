package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/machlink/machlink/pkg/types"
)

// --- document_order ---

type DocumentOrderInput struct{}

type DocumentOrderOutput struct {
	Cyclic bool     `json:"cyclic"`
	Order  []string `json:"order,omitempty"`
}

// --- detect_cycles ---

type DetectCyclesInput struct{}

type DetectCyclesOutput struct {
	Count  int        `json:"count"`
	Cycles [][]string `json:"cycles,omitempty"`
}

// --- module_dependencies ---

type ModuleDependenciesInput struct {
	Module string `json:"module" jsonschema:"module id as reported by workspace_status"`
}

type ModuleDependenciesOutput struct {
	Module       string   `json:"module"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}

// --- has_path ---

type HasPathInput struct {
	From string `json:"from" jsonschema:"module id of the potential dependent"`
	To   string `json:"to" jsonschema:"module id of the potential dependency"`
}

type HasPathOutput struct {
	From    string `json:"from"`
	To      string `json:"to"`
	HasPath bool   `json:"has_path"`
}

func registerGraphTools(s *mcpsdk.Server, state *MCPServer) {
	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "document_order",
		Description: "Return the modules in dependency order (dependencies before dependents). A cyclic workspace has no order.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in DocumentOrderInput) (*mcpsdk.CallToolResult, any, error) {
		state.RLock()
		defer state.RUnlock()

		m, err := state.Manager()
		if err != nil {
			return errResult(err), nil, nil
		}
		order := m.DocumentsInOrder()
		if order == nil {
			return textResult(DocumentOrderOutput{Cyclic: true}), nil, nil
		}
		out := DocumentOrderOutput{}
		for _, id := range order {
			out.Order = append(out.Order, string(id))
		}
		return textResult(out), nil, nil
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "detect_cycles",
		Description: "Report every dependency cycle in the workspace as a closed module walk.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in DetectCyclesInput) (*mcpsdk.CallToolResult, any, error) {
		state.RLock()
		defer state.RUnlock()

		m, err := state.Manager()
		if err != nil {
			return errResult(err), nil, nil
		}
		out := DetectCyclesOutput{}
		for _, cycle := range m.DetectCycles() {
			walk := make([]string, 0, len(cycle))
			for _, id := range cycle {
				walk = append(walk, string(id))
			}
			out.Cycles = append(out.Cycles, walk)
		}
		out.Count = len(out.Cycles)
		return textResult(out), nil, nil
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "module_dependencies",
		Description: "Return the direct dependencies and dependents of a module.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in ModuleDependenciesInput) (*mcpsdk.CallToolResult, any, error) {
		state.RLock()
		defer state.RUnlock()

		m, err := state.Manager()
		if err != nil {
			return errResult(err), nil, nil
		}
		id := types.ModuleID(in.Module)
		if _, loaded := m.Module(id); !loaded {
			return errResult(types.NewModuleNotFound(in.Module, "")), nil, nil
		}
		out := ModuleDependenciesOutput{
			Module:       in.Module,
			Dependencies: []string{},
			Dependents:   []string{},
		}
		for _, dep := range m.Graph().DependenciesOf(id) {
			out.Dependencies = append(out.Dependencies, string(dep))
		}
		for _, dep := range m.Graph().DependentsOf(id) {
			out.Dependents = append(out.Dependents, string(dep))
		}
		return textResult(out), nil, nil
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "has_path",
		Description: "Report whether one module transitively depends on another.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in HasPathInput) (*mcpsdk.CallToolResult, any, error) {
		state.RLock()
		defer state.RUnlock()

		m, err := state.Manager()
		if err != nil {
			return errResult(err), nil, nil
		}
		return textResult(HasPathOutput{
			From:    in.From,
			To:      in.To,
			HasPath: m.HasPath(types.ModuleID(in.From), types.ModuleID(in.To)),
		}), nil, nil
	})
}
