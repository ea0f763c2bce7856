// Package apierrors classifies failures surfaced by the Dry.ai API into a
// small set of stable kinds. Callers match on the exported sentinels with
// errors.Is; the *Error type carries the diagnostics (HTTP status, server
// message, request id, retry hint) needed to act on a failure.
package apierrors

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the classification of a client-visible failure.
type Kind int

const (
	// KindValidation covers malformed or empty input, locally rejected
	// before any network call, and 400/422 responses from the server.
	KindValidation Kind = iota

	// KindAuth covers missing, expired, or invalid credentials (401/403).
	KindAuth

	// KindNotFound reports that a referenced space, item, type, or folder
	// does not exist (404).
	KindNotFound

	// KindRateLimit reports server throttling (429). The error carries the
	// server's retry-after hint when one was provided.
	KindRateLimit

	// KindRemote is an opaque server-side failure (5xx) or a non-timeout
	// transport fault. Possibly transient, but never retried for mutations.
	KindRemote

	// KindTimeout reports that no response arrived within the configured
	// deadline.
	KindTimeout

	// KindInvalidState reports an operation attempted on a handle that was
	// already deleted. Raised locally, no network round trip involved.
	KindInvalidState
)

// String returns the short lower-case name used in error text and metrics.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not found"
	case KindRateLimit:
		return "rate limit"
	case KindRemote:
		return "remote"
	case KindTimeout:
		return "timeout"
	case KindInvalidState:
		return "invalid state"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Sentinels, one per kind, for errors.Is matching.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAuth         = errors.New("authentication failed")
	ErrNotFound     = errors.New("not found")
	ErrRateLimit    = errors.New("rate limited")
	ErrRemote       = errors.New("remote failure")
	ErrTimeout      = errors.New("request timed out")
	ErrInvalidState = errors.New("handle is no longer valid")
)

// sentinel returns the package sentinel matching k.
func sentinel(k Kind) error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindAuth:
		return ErrAuth
	case KindNotFound:
		return ErrNotFound
	case KindRateLimit:
		return ErrRateLimit
	case KindRemote:
		return ErrRemote
	case KindTimeout:
		return ErrTimeout
	case KindInvalidState:
		return ErrInvalidState
	default:
		return nil
	}
}

// Error carries diagnostics while satisfying errors.Is against the sentinel
// for its Kind. Message holds server-provided text and is suitable for
// direct display to the caller.
type Error struct {
	Kind       Kind
	StatusCode int           // HTTP status code, 0 for non-HTTP failures
	Message    string        // human-readable detail, server text when available
	RequestID  string        // correlation id, server-echoed or client-generated
	RetryAfter time.Duration // server throttle hint, 0 when absent
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Underlying != nil {
		msg = e.Underlying.Error()
	}
	var s string
	switch {
	case e.StatusCode > 0 && msg != "":
		s = fmt.Sprintf("[%s] HTTP %d: %s", e.Kind, e.StatusCode, msg)
	case e.StatusCode > 0:
		s = fmt.Sprintf("[%s] HTTP %d", e.Kind, e.StatusCode)
	case msg != "":
		s = fmt.Sprintf("[%s] %s", e.Kind, msg)
	default:
		s = fmt.Sprintf("[%s]", e.Kind)
	}
	if e.RequestID != "" {
		s += fmt.Sprintf(" (request %s)", e.RequestID)
	}
	return s
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *Error) Unwrap() error { return e.Underlying }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool { return target == sentinel(e.Kind) }

// New builds an *Error of the given kind with a fixed message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf builds an *Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
