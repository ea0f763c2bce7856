package client

import (
	"errors"
	"time"

	"github.com/drydotai/dry-go/client/internal/apierrors"
)

// Error is the diagnostic type behind every failure the SDK reports. Match
// the sentinels below with errors.Is, or recover *Error with errors.As for
// the HTTP status, server message, request id, and retry-after hint.
type Error = apierrors.Error

// ErrorKind classifies an Error; see the Kind* constants.
type ErrorKind = apierrors.Kind

// Error kinds.
const (
	KindValidation   = apierrors.KindValidation
	KindAuth         = apierrors.KindAuth
	KindNotFound     = apierrors.KindNotFound
	KindRateLimit    = apierrors.KindRateLimit
	KindRemote       = apierrors.KindRemote
	KindTimeout      = apierrors.KindTimeout
	KindInvalidState = apierrors.KindInvalidState
)

// Sentinels, one per kind, so callers compare against single symbols.
var (
	// ErrValidation reports malformed or empty input. Blank natural-language
	// strings are rejected with this before any network call.
	ErrValidation = apierrors.ErrValidation

	// ErrAuth reports a missing, expired, or invalid credential.
	ErrAuth = apierrors.ErrAuth

	// ErrNotFound reports that a referenced space, item, type, or folder
	// does not exist.
	ErrNotFound = apierrors.ErrNotFound

	// ErrRateLimit reports server throttling; the Error carries the
	// retry-after hint when the server provided one.
	ErrRateLimit = apierrors.ErrRateLimit

	// ErrRemote is an opaque server-side failure.
	ErrRemote = apierrors.ErrRemote

	// ErrTimeout reports that no response arrived within the deadline.
	ErrTimeout = apierrors.ErrTimeout

	// ErrInvalidState reports an operation on a deleted handle. It is raised
	// locally, without a network round trip.
	ErrInvalidState = apierrors.ErrInvalidState
)

// RetryAfter extracts the server's throttle hint from err, if present.
func RetryAfter(err error) (time.Duration, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRateLimit && e.RetryAfter > 0 {
		return e.RetryAfter, true
	}
	return 0, false
}
