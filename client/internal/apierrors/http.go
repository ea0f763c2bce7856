package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// maxErrorBody bounds how much of an error response is read for diagnostics.
const maxErrorBody = 64 << 10

// KindForStatus maps an HTTP status code to its error kind:
//   - 401/403 are credential problems
//   - 404 means the referenced entity does not exist
//   - 400/422 (and any other 4xx) are request-shape problems
//   - 429 is server throttling
//   - 5xx and anything unexpected are opaque remote failures
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusTooManyRequests:
		return KindRateLimit
	}
	if status >= 400 && status < 500 {
		return KindValidation
	}
	return KindRemote
}

// errorEnvelope is the failure payload shape the API uses. Either "error" or
// "message" carries the display text; "requestId" rides alongside when the
// server echoes one.
type errorEnvelope struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// FromResponse classifies a non-2xx response. The response body is consumed
// (bounded) to extract the server's display message and request id; reqID is
// the client-generated correlation id used when the server does not echo one.
func FromResponse(op string, resp *http.Response, reqID string) *Error {
	e := &Error{
		Kind:       KindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		RequestID:  reqID,
		Underlying: fmt.Errorf("%s: status %d", op, resp.StatusCode),
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		switch {
		case env.Error != "":
			e.Message = env.Error
		case env.Message != "":
			e.Message = env.Message
		}
		if env.RequestID != "" {
			e.RequestID = env.RequestID
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}

	if e.Kind == KindRateLimit {
		e.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return e
}

// FromTransport classifies a transport-level failure (no HTTP response).
// Deadline expiry and net timeouts become KindTimeout; everything else is
// an opaque remote fault.
func FromTransport(op string, reqID string, err error) *Error {
	kind := KindRemote
	if isTimeout(err) {
		kind = KindTimeout
	}
	return &Error{
		Kind:       kind,
		RequestID:  reqID,
		Underlying: fmt.Errorf("%s: %w", op, err),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Retryable reports whether a read-only call may be re-issued after err.
// Only transport-level timeouts qualify; HTTP-level failures, including 429
// and 5xx, always surface to the caller.
func Retryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindTimeout
}

// parseRetryAfter handles both forms of the Retry-After header: a delay in
// seconds or an HTTP date.
func parseRetryAfter(h string) time.Duration {
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
