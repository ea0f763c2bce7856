package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/drydotai/dry-go/client/internal/types"
)

// RegisterUser starts the passwordless handshake: the service creates or
// looks up the account and emails a verification code. Neither call in the
// handshake requires a credential.
func RegisterUser(ctx context.Context, httpClient *http.Client, baseURL, email string) (*types.RegisterUserResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(types.RegisterUserRequest{Email: email})
	if err != nil {
		return nil, err
	}
	httpReq, reqID, err := newRequest(ctx, http.MethodPost, baseURL+registerPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out types.RegisterUserResponse
	if err := do(httpClient, "register user", httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail exchanges the emailed code for the long-lived credential.
func VerifyEmail(ctx context.Context, httpClient *http.Client, baseURL string, req types.VerifyEmailRequest) (*types.VerifyEmailResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, reqID, err := newRequest(ctx, http.MethodPost, baseURL+verifyPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out types.VerifyEmailResponse
	if err := do(httpClient, "verify email", httpReq, reqID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
