package client

import (
	"context"

	"github.com/drydotai/dry-go/client/internal/api"
	"github.com/drydotai/dry-go/client/internal/types"
)

// CreateSpace provisions a new space from a natural-language description.
// The server derives the space's name, structure, and initial types from
// the description.
func (c *Client) CreateSpace(ctx context.Context, description string) (*Space, error) {
	if err := types.RequireText("description", description); err != nil {
		return nil, err
	}
	fields, err := c.createEntity(ctx, "create_space", types.ItemTypeSpace, description, "")
	if err != nil {
		return nil, err
	}
	return newSpace(c, fields), nil
}

// GetSpace resolves an existing space from a natural-language query, e.g.
// its name or a description of its contents.
func (c *Client) GetSpace(ctx context.Context, query string) (*Space, error) {
	if err := types.RequireText("query", query); err != nil {
		return nil, err
	}
	fields, err := c.getEntity(ctx, "get_space", api.GetItemQuery{Type: types.ItemTypeSpace, Query: query})
	if err != nil {
		return nil, err
	}
	return newSpace(c, fields), nil
}

// GetSpaceByID resolves a space from its exact identifier.
func (c *Client) GetSpaceByID(ctx context.Context, id string) (*Space, error) {
	if err := types.RequireID("id", id); err != nil {
		return nil, err
	}
	fields, err := c.getEntity(ctx, "get_space_by_id", api.GetItemQuery{Item: id})
	if err != nil {
		return nil, err
	}
	return newSpace(c, fields), nil
}

// Space returns a handle on a space by id without contacting the server.
// The handle carries no field snapshot until an operation refreshes it;
// use GetSpaceByID when the snapshot matters up front.
func (c *Client) Space(id string) *Space {
	return &Space{c: c, id: id, fields: Fields{}}
}

// Item returns a handle on an item by id without contacting the server.
func (c *Client) Item(id string) *Item {
	return &Item{c: c, id: id, fields: Fields{}}
}
