package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/repoprobe/internal/domain/classify"
)

const rulesURI = "repoprobe://rules"

// registerResources registers all repoprobe MCP resources on the given server.
func registerResources(s *server.MCPServer) {
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Detection Rules",
			mcplib.WithResourceDescription("Rule tiers in evaluation order with their marker tables"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource,
	)
}

func handleRulesResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(classify.Rules(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling rules: %w", err)
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      rulesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
