package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/drydotai/dry-go/client"
)

// SearchHandler exposes the search_items tool.
type SearchHandler struct {
	client *client.Client
}

func NewSearchHandler(c *client.Client) *SearchHandler {
	return &SearchHandler{client: c}
}

// RegisterTools registers the search_items tool.
func (sh *SearchHandler) RegisterTools(s *server.MCPServer) error {
	searchTool := mcp.NewTool("search_items",
		mcp.WithDescription("Search a space with a natural-language query. The service interprets the query against the space's contents; results are returned as JSON items with their fields."),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural-language query, e.g. \"open tasks assigned to Sam\"")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of items to return (1-500, default 50)")),
	)
	s.AddTool(searchTool, sh.handleSearch)
	return nil
}

func (sh *SearchHandler) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	query, _ := req.RequireString("query")

	max := 50
	if v, ok := req.GetArguments()["max_results"].(float64); ok {
		if v >= 1 && v <= 500 {
			max = int(v)
		}
	}

	results, err := sh.client.Space(spaceID).Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	out := make([]client.Fields, 0, 8)
	for len(out) < max {
		item, err := results.Next(ctx)
		if errors.Is(err, client.Done) {
			break
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search pagination failed: %v", err)), nil
		}
		out = append(out, item.Fields())
	}

	b, _ := json.MarshalIndent(map[string]any{
		"items": out,
		"count": len(out),
	}, "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}
