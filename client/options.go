package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client during construction in New.
//
// Options are applied before the authorization transport wrapper is
// installed, so transport-related options (like debug logging) end up
// underneath the bearer-token wrapper. Options must be deterministic and
// side-effect free.
type Option func(*Client) error

// WithServerURL points the client at a different service deployment.
// Absent this option, DRY_AI_SERVER and then the hosted default apply.
func WithServerURL(u string) Option {
	return func(c *Client) error {
		u = strings.TrimRight(strings.TrimSpace(u), "/")
		if u == "" {
			return fmt.Errorf("server url must not be empty")
		}
		c.baseURL = u
		return nil
	}
}

// WithToken authorizes every request with a fixed credential, bypassing the
// credential cache and the DRY_AI_TOKEN variable.
func WithToken(token string) Option {
	return func(c *Client) error {
		if token == "" {
			return fmt.Errorf("token must not be empty")
		}
		c.source = staticTokenSource(token)
		return nil
	}
}

// WithTokenSource supplies credentials through a custom source. The source
// is consulted once per request with the request's context.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) error {
		if src == nil {
			return fmt.Errorf("token source must not be nil")
		}
		c.source = src
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client. Its transport is
// still wrapped with the authorization layer.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP
// request. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithReadRetries allows idempotent read calls (search and the get
// operations) to be re-issued up to n times after a transport timeout.
// Mutating calls are never retried, and neither are HTTP-level failures
// such as 429 or 5xx. The default is 0: no retries.
func WithReadRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return fmt.Errorf("read retries must be >= 0")
		}
		c.readRetries = n
		return nil
	}
}

// WithVerbose controls whether each successful API call logs a confirmation
// line. Server commentary ("message" fields) is logged regardless.
// Verbosity is per-client state, not a process-wide switch; the
// DRY_AI_VERBOSE variable only seeds the default.
func WithVerbose(v bool) Option {
	return func(c *Client) error {
		c.verbose = v
		return nil
	}
}

// WithLogger routes the client's log output through l instead of the
// global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// WithCredentialFile stores and loads the cached credential at path instead
// of the default ~/.dry/credentials.json.
func WithCredentialFile(path string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("credential file path must not be empty")
		}
		c.credPath = path
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// dumped to the debug log when enabled is true.
//
// The debug transport is installed beneath the bearer-token wrapper; do not
// enable this in production, the dumps include credentials and payloads.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}
