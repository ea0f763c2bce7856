package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/drydotai/dry-go/client"
)

// SchemaHandler exposes type and folder tools.
type SchemaHandler struct {
	client *client.Client
}

func NewSchemaHandler(c *client.Client) *SchemaHandler { return &SchemaHandler{client: c} }

func (h *SchemaHandler) RegisterTools(s *server.MCPServer) error {
	addType := mcp.NewTool("add_type",
		mcp.WithDescription("Create an item type in a space from a natural-language description, e.g. \"Task with a title, a status and a priority\"; returns typeId, name and field names"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("description", mcp.Required(), mcp.Description("The type and its fields, in plain language")),
	)

	getType := mcp.NewTool("get_type",
		mcp.WithDescription("Look up a type in a space by name"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Type name")),
	)

	addFolder := mcp.NewTool("add_folder",
		mcp.WithDescription("Create a folder in a space; returns folderId and name"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("description", mcp.Required(), mcp.Description("The folder's name or purpose, in plain language")),
	)

	getFolder := mcp.NewTool("get_folder",
		mcp.WithDescription("Look up a folder in a space by name"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Folder name")),
	)

	s.AddTool(addType, h.handleAddType)
	s.AddTool(getType, h.handleGetType)
	s.AddTool(addFolder, h.handleAddFolder)
	s.AddTool(getFolder, h.handleGetFolder)
	return nil
}

func (h *SchemaHandler) handleAddType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	description, _ := req.RequireString("description")

	log.Debug().Str("space_id", spaceID).Msg("add_type invoked")

	typ, err := h.client.Space(spaceID).AddType(ctx, description)
	if err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Msg("add_type failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to add type: %v", err)), nil
	}

	out := map[string]any{
		"typeId": typ.ID(),
		"name":   typ.Name(),
		"fields": typ.FieldNames(),
	}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}

func (h *SchemaHandler) handleGetType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	name, _ := req.RequireString("name")

	typ, err := h.client.Space(spaceID).GetType(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get type: %v", err)), nil
	}

	out := map[string]any{
		"typeId": typ.ID(),
		"name":   typ.Name(),
		"fields": typ.FieldNames(),
	}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}

func (h *SchemaHandler) handleAddFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	description, _ := req.RequireString("description")

	log.Debug().Str("space_id", spaceID).Msg("add_folder invoked")

	folder, err := h.client.Space(spaceID).AddFolder(ctx, description)
	if err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Msg("add_folder failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to add folder: %v", err)), nil
	}

	out := map[string]any{"folderId": folder.ID(), "name": folder.Name()}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}

func (h *SchemaHandler) handleGetFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	name, _ := req.RequireString("name")

	folder, err := h.client.Space(spaceID).GetFolder(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get folder: %v", err)), nil
	}

	out := map[string]any{"folderId": folder.ID(), "name": folder.Name()}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}
