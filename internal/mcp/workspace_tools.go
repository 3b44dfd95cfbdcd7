package mcp

import (
	"context"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/machlink/machlink/pkg/parser"
	"github.com/machlink/machlink/pkg/types"
)

// --- load_workspace ---

type LoadWorkspaceInput struct {
	Path string `json:"path" jsonschema:"absolute path to the workspace root directory"`
}

type LoadWorkspaceOutput struct {
	RootPath    string `json:"root_path"`
	ModuleCount int    `json:"module_count"`
	ErrorCount  int    `json:"error_count"`
}

// --- workspace_status ---

type WorkspaceStatusInput struct{}

type WorkspaceStatusOutput struct {
	Loaded      bool     `json:"loaded"`
	RootPath    string   `json:"root_path,omitempty"`
	ModuleCount int      `json:"module_count"`
	Modules     []string `json:"modules,omitempty"`
}

// --- update_document / remove_document ---

type UpdateDocumentInput struct {
	Path string `json:"path" jsonschema:"absolute path of the machine file to (re)load"`
}

type UpdateDocumentOutput struct {
	Module       string `json:"module"`
	Dependencies int    `json:"dependencies"`
}

type RemoveDocumentInput struct {
	Module string `json:"module" jsonschema:"module id to retract from the workspace"`
}

type RemoveDocumentOutput struct {
	Module  string `json:"module"`
	Removed bool   `json:"removed"`
}

// --- diagnostics ---

type DiagnosticsInput struct {
	ErrorsOnly bool `json:"errors_only,omitempty" jsonschema:"return only error-severity findings"`
}

type DiagnosticsOutput struct {
	Count       int              `json:"count"`
	Diagnostics []DiagnosticView `json:"diagnostics"`
}

func registerWorkspaceTools(s *mcpsdk.Server, state *MCPServer) {
	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "load_workspace",
		Description: "Load every machine-definition file under a directory into the linker workspace. Must be called before any other tool.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in LoadWorkspaceInput) (*mcpsdk.CallToolResult, any, error) {
		count, err := state.LoadWorkspace(ctx, in.Path)
		if err != nil {
			return errResult(err), nil, nil
		}
		out := LoadWorkspaceOutput{
			RootPath:    state.RootPath(),
			ModuleCount: count,
		}
		if sink := state.Diagnostics(); sink != nil {
			out.ErrorCount = len(sink.Errors())
		}
		return textResult(out), nil, nil
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "workspace_status",
		Description: "Return the current workspace status: loaded state, root path, and module list.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in WorkspaceStatusInput) (*mcpsdk.CallToolResult, any, error) {
		state.RLock()
		defer state.RUnlock()

		m, err := state.Manager()
		if err != nil {
			return textResult(WorkspaceStatusOutput{Loaded: false}), nil, nil
		}
		out := WorkspaceStatusOutput{
			Loaded:   true,
			RootPath: state.RootPath(),
		}
		for _, id := range m.Modules() {
			out.Modules = append(out.Modules, string(id))
		}
		out.ModuleCount = len(out.Modules)
		return textResult(out), nil, nil
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "update_document",
		Description: "Parse a machine file and register it with the workspace, replacing any previous registration and rebuilding its dependency edges.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in UpdateDocumentInput) (*mcpsdk.CallToolResult, any, error) {
		state.mu.Lock()
		defer state.mu.Unlock()

		m, err := state.Manager()
		if err != nil {
			return errResult(err), nil, nil
		}
		content, err := os.ReadFile(in.Path)
		if err != nil {
			return errResult(fmt.Errorf("read %s: %w", in.Path, err)), nil, nil
		}
		id := types.NormalizeModuleID(in.Path)
		mod, err := parser.Parse(id, content)
		if err != nil {
			return errResult(err), nil, nil
		}
		if err := m.UpdateDocument(ctx, mod); err != nil {
			return errResult(err), nil, nil
		}
		info, _ := m.Info(id)
		return textResult(UpdateDocumentOutput{
			Module:       string(id),
			Dependencies: len(info.Dependencies),
		}), nil, nil
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "remove_document",
		Description: "Retract a module from the workspace, deleting every dependency edge referencing it.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in RemoveDocumentInput) (*mcpsdk.CallToolResult, any, error) {
		state.mu.Lock()
		defer state.mu.Unlock()

		m, err := state.Manager()
		if err != nil {
			return errResult(err), nil, nil
		}
		id := types.ModuleID(in.Module)
		_, loaded := m.Module(id)
		m.RemoveDocument(id)
		return textResult(RemoveDocumentOutput{Module: in.Module, Removed: loaded}), nil, nil
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "diagnostics",
		Description: "Return the diagnostics collected while loading and linking the workspace.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in DiagnosticsInput) (*mcpsdk.CallToolResult, any, error) {
		state.RLock()
		defer state.RUnlock()

		if _, err := state.Manager(); err != nil {
			return errResult(err), nil, nil
		}
		sink := state.Diagnostics()
		diags := sink.Diagnostics
		if in.ErrorsOnly {
			diags = sink.Errors()
		}
		return textResult(DiagnosticsOutput{
			Count:       len(diags),
			Diagnostics: diagnosticViews(diags),
		}), nil, nil
	})
}
