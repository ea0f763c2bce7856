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

// ItemHandler exposes item-level tools.
type ItemHandler struct {
	client *client.Client
}

func NewItemHandler(c *client.Client) *ItemHandler { return &ItemHandler{client: c} }

func (h *ItemHandler) RegisterTools(s *server.MCPServer) error {
	add := mcp.NewTool("add_item",
		mcp.WithDescription("Create an item in a space from a natural-language description; the service infers the type and field values. Returns the new item as JSON"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("description", mcp.Required(), mcp.Description("The item, in plain language, e.g. \"high-priority task: fix the login bug\"")),
	)

	update := mcp.NewTool("update_item",
		mcp.WithDescription("Apply a natural-language instruction to one item; returns the refreshed item as JSON"),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("Item ID")),
		mcp.WithString("instruction", mcp.Required(), mcp.Description("What to change, e.g. \"mark it completed\"")),
	)

	updateMany := mcp.NewTool("update_items",
		mcp.WithDescription("Apply a natural-language instruction across a space's items; the service picks the targets. Returns the updated items as JSON"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("instruction", mcp.Required(), mcp.Description("What to change and where, e.g. \"mark all overdue tasks as urgent\"")),
	)

	del := mcp.NewTool("delete_item",
		mcp.WithDescription("Delete one item permanently"),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("Item ID")),
	)

	delMany := mcp.NewTool("delete_items",
		mcp.WithDescription("Delete every item in a space matching a natural-language query; returns the number deleted"),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Which items to delete, e.g. \"all completed tasks\"")),
	)

	s.AddTool(add, h.handleAddItem)
	s.AddTool(update, h.handleUpdateItem)
	s.AddTool(updateMany, h.handleUpdateItems)
	s.AddTool(del, h.handleDeleteItem)
	s.AddTool(delMany, h.handleDeleteItems)
	return nil
}

func (h *ItemHandler) handleAddItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	description, _ := req.RequireString("description")

	log.Debug().Str("space_id", spaceID).Msg("add_item invoked")

	start := time.Now()
	item, err := h.client.Space(spaceID).AddItem(ctx, description)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Dur("elapsed", elapsed).Msg("add_item failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to add item: %v", err)), nil
	}

	b, _ := json.Marshal(item.Fields())
	return mcp.NewToolResultText(string(b)), nil
}

func (h *ItemHandler) handleUpdateItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID, _ := req.RequireString("item_id")
	instruction, _ := req.RequireString("instruction")

	log.Debug().Str("item_id", itemID).Msg("update_item invoked")

	item := h.client.Item(itemID)
	if err := item.Update(ctx, instruction); err != nil {
		log.Error().Err(err).Str("item_id", itemID).Msg("update_item failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to update item: %v", err)), nil
	}

	b, _ := json.Marshal(item.Fields())
	return mcp.NewToolResultText(string(b)), nil
}

func (h *ItemHandler) handleUpdateItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	instruction, _ := req.RequireString("instruction")

	log.Debug().Str("space_id", spaceID).Msg("update_items invoked")

	items, err := h.client.Space(spaceID).UpdateItems(ctx, instruction)
	if err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Msg("update_items failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to update items: %v", err)), nil
	}

	b, _ := json.MarshalIndent(map[string]any{
		"items": itemFields(items),
		"count": len(items),
	}, "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}

func (h *ItemHandler) handleDeleteItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID, _ := req.RequireString("item_id")

	log.Debug().Str("item_id", itemID).Msg("delete_item invoked")

	if err := h.client.Item(itemID).Delete(ctx); err != nil {
		log.Error().Err(err).Str("item_id", itemID).Msg("delete_item failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete item: %v", err)), nil
	}

	return mcp.NewToolResultText("deleted"), nil
}

func (h *ItemHandler) handleDeleteItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceID, _ := req.RequireString("space_id")
	query, _ := req.RequireString("query")

	log.Debug().Str("space_id", spaceID).Msg("delete_items invoked")

	n, err := h.client.Space(spaceID).DeleteItems(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Msg("delete_items failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete items: %v", err)), nil
	}

	b, _ := json.Marshal(map[string]int{"deleted": n})
	return mcp.NewToolResultText(string(b)), nil
}
