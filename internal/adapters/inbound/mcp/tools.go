package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/repoprobe/internal/adapters/outbound/cache"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/gitlocal"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/localfs"
	"github.com/abdidvp/repoprobe/internal/application"
	"github.com/abdidvp/repoprobe/internal/domain"
)

// registerTools registers all repoprobe MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. repoprobe_inspect
	s.AddTool(
		mcplib.NewTool("repoprobe_inspect",
			mcplib.WithDescription("Classify a local repository as a web application and return the result with its evidence as JSON"),
			mcplib.WithString("path", mcplib.Description("Repository directory or git clone (defaults to the server's path)")),
			mcplib.WithNumber("max_depth", mcplib.Description("Deepest directory level searched (default 2)")),
		),
		handleInspect(projectPath),
	)

	// 2. repoprobe_targets
	s.AddTool(
		mcplib.NewTool("repoprobe_targets",
			mcplib.WithDescription("Returns the file names and suffixes probed in each repository and the directories never searched"),
		),
		handleTargets(),
	)
}

func handleInspect(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		path := projectPath
		if p, ok := args["path"].(string); ok && p != "" {
			path = p
		}
		cfg := domain.DefaultConfig()
		if d, ok := args["max_depth"].(float64); ok {
			cfg.MaxDepth = int(d)
		}
		if err := cfg.Validate(); err != nil {
			return errorResult(err.Error()), nil
		}

		result, err := inspect(ctx, path, cfg)
		if err != nil {
			return errorResult(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func inspect(ctx context.Context, path string, cfg domain.Config) (domain.Result, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return domain.Result{}, err
	}

	var host domain.RepositoryHost
	if gitlocal.IsGitRepo(absPath) {
		host, err = gitlocal.Open(absPath)
	} else {
		host, err = localfs.New(absPath)
	}
	if err != nil {
		return domain.Result{}, err
	}

	repos, err := host.ListRepositories(ctx, "")
	if err != nil {
		return domain.Result{}, err
	}
	store, err := cache.New(cfg.CacheSize)
	if err != nil {
		return domain.Result{}, err
	}
	svc := application.NewAnalyzeService(host, cfg.MaxDepth,
		application.WithCache(store),
		application.WithFallbackBranches(cfg.FallbackBranches),
	)
	return svc.Analyze(ctx, repos[0]), nil
}

func handleTargets() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		skip := make([]string, 0, len(domain.SkipDirs))
		for d := range domain.SkipDirs {
			skip = append(skip, d)
		}
		sort.Strings(skip)
		return jsonResult(map[string][]string{
			"files":     domain.TargetFiles,
			"suffixes":  domain.TargetSuffixes,
			"skip_dirs": skip,
		})
	}
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error result with the given message.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
