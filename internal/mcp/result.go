package mcp

import (
	"encoding/json"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/machlink/machlink/pkg/types"
)

// DiagnosticView is the JSON shape diagnostics take in tool output.
type DiagnosticView struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Module   string `json:"module,omitempty"`
	Property string `json:"property,omitempty"`
}

func diagnosticViews(diags []types.Diagnostic) []DiagnosticView {
	out := make([]DiagnosticView, 0, len(diags))
	for _, d := range diags {
		out = append(out, DiagnosticView{
			Severity: d.Severity.String(),
			Message:  d.Message,
			Module:   string(d.Module),
			Property: d.Property,
		})
	}
	return out
}

// textResult is a convenience that marshals v to JSON and wraps it in a
// CallToolResult with a single TextContent block.
func textResult(v any) *mcpsdk.CallToolResult {
	b, _ := json.MarshalIndent(v, "", "  ")
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a CallToolResult that signals an error.
func errResult(err error) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}
}
