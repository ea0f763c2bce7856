package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/drydotai/dry-go/client/internal/types"
)

// CreateItem creates a SMARTSPACE, TYPE, ITEM, or FOLDER entity from a
// natural-language description. The server echoes the created entities in
// the items list.
func CreateItem(ctx context.Context, httpClient *http.Client, baseURL string, req types.CreateItemRequest) (*types.ItemsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, reqID, err := newRequest(ctx, http.MethodPost, baseURL+itemsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out types.ItemsResponse
	if err := do(httpClient, "create "+string(req.Type), httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetItemQuery selects a single entity: either directly by Item id, or by
// Type plus natural-language Query, optionally scoped to a Folder.
type GetItemQuery struct {
	Item   string
	Type   types.ItemType
	Query  string
	Folder string
}

func (q GetItemQuery) values() url.Values {
	v := url.Values{}
	if q.Item != "" {
		v.Set("item", q.Item)
	}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	if q.Folder != "" {
		v.Set("folder", q.Folder)
	}
	return v
}

// GetItem fetches one entity.
func GetItem(ctx context.Context, httpClient *http.Client, baseURL string, q GetItemQuery) (*types.ItemResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	httpReq, reqID, err := newRequest(ctx, http.MethodGet, baseURL+itemPath+"?"+q.values().Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out types.ItemResponse
	if err := do(httpClient, "get item", httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListItems searches a folder with a natural-language query. A non-empty
// continuation token resumes a server-driven result sequence.
func ListItems(ctx context.Context, httpClient *http.Client, baseURL, folder, query, continuation string) (*types.ItemsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set("folder", folder)
	v.Set("query", query)
	v.Set("multi", "true")
	if continuation != "" {
		v.Set("continuation", continuation)
	}
	httpReq, reqID, err := newRequest(ctx, http.MethodGet, baseURL+itemsPath+"?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out types.ItemsResponse
	if err := do(httpClient, "search", httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateItems applies a natural-language instruction to one record (Item
// set) or across a folder (Folder set). The server returns the updated
// entities as snapshots.
func UpdateItems(ctx context.Context, httpClient *http.Client, baseURL string, req types.UpdateItemsRequest) (*types.ItemsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, reqID, err := newRequest(ctx, http.MethodPut, baseURL+itemsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out types.ItemsResponse
	if err := do(httpClient, "update", httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteItem removes one entity by id.
func DeleteItem(ctx context.Context, httpClient *http.Client, baseURL, itemID string) (*types.DeleteResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set("item", itemID)
	httpReq, reqID, err := newRequest(ctx, http.MethodDelete, baseURL+itemsPath+"?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out types.DeleteResponse
	if err := do(httpClient, "delete item", httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteItems removes every entity in a folder matching a natural-language
// query.
func DeleteItems(ctx context.Context, httpClient *http.Client, baseURL, folder, query string) (*types.DeleteResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set("folder", folder)
	v.Set("query", query)
	httpReq, reqID, err := newRequest(ctx, http.MethodDelete, baseURL+itemsPath+"?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out types.DeleteResponse
	if err := do(httpClient, "delete items", httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
