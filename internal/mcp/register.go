package mcp

import mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

// RegisterAllTools wires every machlink tool into the MCP server.
func RegisterAllTools(s *mcpsdk.Server, state *MCPServer) {
	registerWorkspaceTools(s, state)
	registerGraphTools(s, state)
	registerMergeTools(s, state)
}
