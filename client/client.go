// Package client is the Go SDK for Dry.ai, a hosted, natural-language
// driven structured data service. All language understanding, retrieval,
// schema inference, and permission checks run server-side; this package is
// a typed HTTP client over the service's CRUD API plus the passwordless
// email+code authentication handshake.
//
// Typical use:
//
//	c, err := client.New()
//	if err != nil { ... }
//	defer c.Close()
//
//	space, err := c.CreateSpace(ctx, "Track my project tasks and deadlines")
//	item, err := space.AddItem(ctx, "Task: ship the Q3 report, due Friday, high priority")
//	err = item.Update(ctx, "mark as done")
//
// Every operation takes free-form natural language; the server interprets
// it and the SDK returns the structured result.
package client

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/drydotai/dry-go/client/internal/api"
	"github.com/drydotai/dry-go/client/internal/apierrors"
	"github.com/drydotai/dry-go/client/internal/credstore"
	"github.com/drydotai/dry-go/client/internal/types"
)

// DefaultServerURL is the hosted service endpoint.
const DefaultServerURL = "https://dry.ai"

// Environment variables honored by New. Options take precedence.
const (
	EnvServer  = "DRY_AI_SERVER"
	EnvToken   = "DRY_AI_TOKEN"
	EnvVerbose = "DRY_AI_VERBOSE"
)

// Version is the SDK release identifier.
const Version = api.Version

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is the top-level handle on the service. It is safe for concurrent
// use; the only shared mutable state is the cached credential, which the
// auth session guards.
type Client struct {
	baseURL     string
	http        *http.Client
	logger      zerolog.Logger
	verbose     bool
	readRetries int
	credPath    string
	source      TokenSource

	auth *AuthSession

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client. With no options it talks to the hosted service,
// authorizing each request with DRY_AI_TOKEN or the credential cached by a
// previous login.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultServerURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  log.Logger,
		verbose: verboseRequested(),
	}
	if u := os.Getenv(EnvServer); u != "" {
		c.baseURL = strings.TrimRight(u, "/")
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	store, err := credstore.New(c.credPath)
	if err != nil {
		return nil, err
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// The auth session runs over the same transport stack minus the bearer
	// wrapper: the handshake endpoints are unauthenticated.
	c.auth = newAuthSession(&http.Client{Timeout: c.http.Timeout, Transport: base}, c.baseURL, store, c.logger)

	if c.source == nil {
		c.source = c.auth
	}
	c.http.Transport = &authTransport{base: base, source: c.source}

	return c, nil
}

// verboseRequested reads the DRY_AI_VERBOSE default.
func verboseRequested() bool {
	switch strings.ToLower(os.Getenv(EnvVerbose)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// BaseURL returns the service endpoint this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Auth returns the session driving the email+code handshake and owning the
// cached credential.
func (c *Client) Auth() *AuthSession { return c.auth }

// Close releases idle connections. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

// authTransport wraps an http.RoundTripper to attach the bearer credential.
type authTransport struct {
	base   http.RoundTripper
	source TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token(req.Context())
	if err != nil {
		if errors.Is(err, ErrAuth) {
			// No credential yet: send unauthenticated, the server decides.
			return t.base.RoundTrip(req)
		}
		return nil, err
	}
	if token == "" {
		return t.base.RoundTrip(req)
	}
	// Clone the request to avoid modifying the original.
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}

// --------------------------------------------------------------------
// Shared call plumbing
// --------------------------------------------------------------------

// afterCall records metrics and surfaces server commentary for one logical
// API call (retries included).
func (c *Client) afterCall(op string, start time.Time, msg string, err error) {
	requestSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(op, outcomeLabel(err)).Inc()
	if err != nil {
		return
	}
	if msg != "" {
		c.logger.Info().Str("operation", op).Msg(msg)
	}
	if c.verbose {
		c.logger.Info().Str("operation", op).Msg("call completed")
	}
}

// withReadRetry re-issues fn after transport timeouts, up to the configured
// bound. Only timeouts qualify: HTTP-level failures (429, 5xx) and every
// mutation surface immediately.
func (c *Client) withReadRetry(ctx context.Context, fn func() error) error {
	if c.readRetries <= 0 {
		return fn()
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(newRetryBackOff(), uint64(c.readRetries)), ctx)
	wrapped := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !apierrors.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, d time.Duration) {
		readRetriesTotal.Inc()
		c.logger.Debug().Err(err).Dur("backoff", d).Msg("retrying read after timeout")
	}
	return backoff.RetryNotify(wrapped, bo, notify)
}

func newRetryBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 3 * time.Second
	bo.MaxElapsedTime = 0 // bounded by the retry count and the context
	return bo
}

// --------------------------------------------------------------------
// Entity operation helpers - shared by the Space and Item facades
// --------------------------------------------------------------------

// createEntity posts a natural-language creation request and returns the
// first created entity's fields.
func (c *Client) createEntity(ctx context.Context, op string, typ types.ItemType, query, folder string) (Fields, error) {
	start := time.Now()
	resp, err := api.CreateItem(ctx, c.http, c.baseURL, types.CreateItemRequest{
		Type:   typ,
		Query:  query,
		Multi:  "true",
		Folder: folder,
	})
	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	c.afterCall(op, start, msg, err)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, apierrors.Newf(apierrors.KindRemote, "server accepted %s but returned no entity", op)
	}
	return fieldsFromRaw(resp.Items[0]), nil
}

// getEntity fetches a single entity; read retries apply.
func (c *Client) getEntity(ctx context.Context, op string, q api.GetItemQuery) (Fields, error) {
	start := time.Now()
	var resp *types.ItemResponse
	err := c.withReadRetry(ctx, func() error {
		var callErr error
		resp, callErr = api.GetItem(ctx, c.http, c.baseURL, q)
		return callErr
	})
	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	c.afterCall(op, start, msg, err)
	if err != nil {
		return nil, err
	}
	if resp.Item == nil {
		if q.Item != "" {
			return nil, apierrors.Newf(apierrors.KindNotFound, "no entity with id %q", q.Item)
		}
		return nil, apierrors.Newf(apierrors.KindNotFound, "no %s matches %q", strings.ToLower(string(q.Type)), q.Query)
	}
	return fieldsFromRaw(resp.Item), nil
}

// listPage fetches one page of search results; read retries apply.
func (c *Client) listPage(ctx context.Context, op, folder, query, continuation string) (*types.ItemsResponse, error) {
	start := time.Now()
	var resp *types.ItemsResponse
	err := c.withReadRetry(ctx, func() error {
		var callErr error
		resp, callErr = api.ListItems(ctx, c.http, c.baseURL, folder, query, continuation)
		return callErr
	})
	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	c.afterCall(op, start, msg, err)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// updateTargets applies a natural-language instruction to one record or
// across a folder and returns the server's updated snapshots.
func (c *Client) updateTargets(ctx context.Context, op string, req types.UpdateItemsRequest) ([]Fields, error) {
	start := time.Now()
	resp, err := api.UpdateItems(ctx, c.http, c.baseURL, req)
	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	c.afterCall(op, start, msg, err)
	if err != nil {
		return nil, err
	}
	out := make([]Fields, len(resp.Items))
	for i, raw := range resp.Items {
		out[i] = fieldsFromRaw(raw)
	}
	return out, nil
}

// deleteTarget removes one entity by id.
func (c *Client) deleteTarget(ctx context.Context, op, itemID string) error {
	start := time.Now()
	resp, err := api.DeleteItem(ctx, c.http, c.baseURL, itemID)
	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	c.afterCall(op, start, msg, err)
	return err
}

// deleteMatching removes every entity in a folder matching the query and
// returns the removed count when the server reports one.
func (c *Client) deleteMatching(ctx context.Context, op, folder, query string) (int, error) {
	start := time.Now()
	resp, err := api.DeleteItems(ctx, c.http, c.baseURL, folder, query)
	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	c.afterCall(op, start, msg, err)
	if err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// promptFolder runs a free-form instruction against a space and returns the
// affected entities.
func (c *Client) promptFolder(ctx context.Context, op, folder, instruction string) ([]Fields, error) {
	start := time.Now()
	resp, err := api.Prompt(ctx, c.http, c.baseURL, folder, instruction)
	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	c.afterCall(op, start, msg, err)
	if err != nil {
		return nil, err
	}
	out := make([]Fields, len(resp.Items))
	for i, raw := range resp.Items {
		out[i] = fieldsFromRaw(raw)
	}
	return out, nil
}

// reportFolder composes a formatted document over a space's contents.
func (c *Client) reportFolder(ctx context.Context, op, folder, instruction string) (string, error) {
	start := time.Now()
	resp, err := api.Report(ctx, c.http, c.baseURL, folder, instruction)
	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	c.afterCall(op, start, msg, err)
	if err != nil {
		return "", err
	}
	return resp.Report, nil
}
