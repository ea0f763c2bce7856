// Package api is the transport layer for the Dry.ai CRUD API: it turns
// (method, path, payload) into an HTTP request and a decoded JSON result or
// a classified error. Authorization is attached by the client's transport
// wrapper, not here. No business logic lives in this package.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/drydotai/dry-go/client/internal/apierrors"
)

// Version is the SDK release identifier reported in the User-Agent header.
const Version = "0.1.0"

const userAgent = "dry-go/" + Version

// Endpoint paths, rooted at the service base URL.
const (
	crudPath     = "/api/crud-gpt"
	itemsPath    = crudPath + "/items"
	itemPath     = crudPath + "/item"
	promptPath   = crudPath + "/prompt"
	reportPath   = crudPath + "/report"
	registerPath = crudPath + "/register-user"
	verifyPath   = crudPath + "/verify-email"
)

// newRequest builds a JSON API request carrying the standard headers and a
// fresh correlation id. The id is returned so failures can reference it.
func newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, "", err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", reqID)
	return req, reqID, nil
}

// do executes the request and decodes a 2xx JSON body into out. Transport
// faults and non-2xx statuses come back as *apierrors.Error; op names the
// call for error text.
func do(httpClient *http.Client, op string, req *http.Request, reqID string, out any) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return apierrors.FromTransport(op, reqID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierrors.FromResponse(op, resp, reqID)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apierrors.FromTransport(op, reqID, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
