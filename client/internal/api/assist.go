package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/drydotai/dry-go/client/internal/types"
)

// Prompt asks the service to act on a space with a free-form instruction.
// The server performs whatever reads and writes the instruction implies and
// returns the affected items.
func Prompt(ctx context.Context, httpClient *http.Client, baseURL, folder, query string) (*types.ItemsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(types.AssistRequest{Folder: folder, Query: query})
	if err != nil {
		return nil, err
	}
	httpReq, reqID, err := newRequest(ctx, http.MethodPost, baseURL+promptPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out types.ItemsResponse
	if err := do(httpClient, "prompt", httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report asks the service to compose a formatted text document over a
// space's contents.
func Report(ctx context.Context, httpClient *http.Client, baseURL, folder, query string) (*types.ReportResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(types.AssistRequest{Folder: folder, Query: query})
	if err != nil {
		return nil, err
	}
	httpReq, reqID, err := newRequest(ctx, http.MethodPost, baseURL+reportPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out types.ReportResponse
	if err := do(httpClient, "report", httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
