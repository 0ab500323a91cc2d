package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewRepoprobeMCPServer creates an MCP server with the repoprobe tools and
// resources registered. projectPath is the repository inspected when a tool
// call names no path.
func NewRepoprobeMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"repoprobe",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s)

	return s
}
