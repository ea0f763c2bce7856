package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/drydotai/dry-go/client"
)

// SpaceHandler exposes space-level management tools.
type SpaceHandler struct {
	client *client.Client
}

func NewSpaceHandler(c *client.Client) *SpaceHandler { return &SpaceHandler{client: c} }

func (h *SpaceHandler) RegisterTools(s *server.MCPServer) error {
	create := mcp.NewTool("create_space",
		mcp.WithDescription("Create a Dry.ai space from a natural-language description; returns the new space as JSON"),
		mcp.WithString("description", mcp.Required(), mcp.Description("What the space is for, in plain language")),
	)

	get := mcp.NewTool("get_space",
		mcp.WithDescription("Look up a space by ID or by natural-language query; provide exactly one of space_id / query"),
		mcp.WithString("space_id", mcp.Description("Space ID")),
		mcp.WithString("query", mcp.Description("Natural-language description of the space to find")),
	)

	update := mcp.NewTool("update_space",
		mcp.WithDescription("Apply a natural-language instruction to a space itself (rename it, change its description); returns the refreshed space as JSON"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("instruction", mcp.Required(), mcp.Description("What to change, in plain language")),
	)

	del := mcp.NewTool("delete_space",
		mcp.WithDescription("Delete a space permanently, including everything in it"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
	)

	prompt := mcp.NewTool("prompt_space",
		mcp.WithDescription("Run a free-form instruction against a space; the service decides whether to create, change or fetch data. Returns the affected items as JSON"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("instruction", mcp.Required(), mcp.Description("Free-form instruction, e.g. \"log that I ran 5k this morning\"")),
	)

	report := mcp.NewTool("report_space",
		mcp.WithDescription("Compose a prose report over a space's contents, e.g. \"summarize open tasks by priority\""),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("instruction", mcp.Required(), mcp.Description("What the report should cover")),
	)

	s.AddTool(create, h.handleCreateSpace)
	s.AddTool(get, h.handleGetSpace)
	s.AddTool(update, h.handleUpdateSpace)
	s.AddTool(del, h.handleDeleteSpace)
	s.AddTool(prompt, h.handlePromptSpace)
	s.AddTool(report, h.handleReportSpace)
	return nil
}

func (h *SpaceHandler) handleCreateSpace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, _ := req.RequireString("description")

	log.Debug().Msg("create_space invoked")

	start := time.Now()
	space, err := h.client.CreateSpace(ctx, description)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("create_space failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to create space: %v", err)), nil
	}

	b, _ := json.Marshal(space.Fields())
	return mcp.NewToolResultText(string(b)), nil
}

func (h *SpaceHandler) handleGetSpace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	spaceID, _ := args["space_id"].(string)
	query, _ := args["query"].(string)
	if (spaceID == "") == (query == "") {
		return mcp.NewToolResultError("provide exactly one of space_id or query"), nil
	}

	var (
		space *client.Space
		err   error
	)
	if spaceID != "" {
		space, err = h.client.GetSpaceByID(ctx, spaceID)
	} else {
		space, err = h.client.GetSpace(ctx, query)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get space: %v", err)), nil
	}

	b, _ := json.Marshal(space.Fields())
	return mcp.NewToolResultText(string(b)), nil
}

func (h *SpaceHandler) handleUpdateSpace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	instruction, _ := req.RequireString("instruction")

	log.Debug().Str("space_id", spaceID).Msg("update_space invoked")

	space := h.client.Space(spaceID)
	if err := space.Update(ctx, instruction); err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Msg("update_space failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to update space: %v", err)), nil
	}

	b, _ := json.Marshal(space.Fields())
	return mcp.NewToolResultText(string(b)), nil
}

func (h *SpaceHandler) handleDeleteSpace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")

	log.Debug().Str("space_id", spaceID).Msg("delete_space invoked")

	start := time.Now()
	err := h.client.Space(spaceID).Delete(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Dur("elapsed", elapsed).Msg("delete_space failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete space: %v", err)), nil
	}

	return mcp.NewToolResultText("deleted"), nil
}

func (h *SpaceHandler) handlePromptSpace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	instruction, _ := req.RequireString("instruction")

	log.Debug().Str("space_id", spaceID).Msg("prompt_space invoked")

	items, err := h.client.Space(spaceID).Prompt(ctx, instruction)
	if err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Msg("prompt_space failed")
		return mcp.NewToolResultError(fmt.Sprintf("prompt failed: %v", err)), nil
	}

	b, _ := json.MarshalIndent(map[string]any{
		"items": itemFields(items),
		"count": len(items),
	}, "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}

func (h *SpaceHandler) handleReportSpace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	instruction, _ := req.RequireString("instruction")

	report, err := h.client.Space(spaceID).Report(ctx, instruction)
	if err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Msg("report_space failed")
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	// Plain text, not JSON - the report is prose for the model to read.
	return mcp.NewToolResultText(report), nil
}

// itemFields reduces a batch of item handles to their raw field maps for
// JSON output.
func itemFields(items []*client.Item) []client.Fields {
	out := make([]client.Fields, len(items))
	for i, it := range items {
		out[i] = it.Fields()
	}
	return out
}
