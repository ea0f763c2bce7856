package client

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/drydotai/dry-go/client/internal/api"
	"github.com/drydotai/dry-go/client/internal/apierrors"
	"github.com/drydotai/dry-go/client/internal/credstore"
	"github.com/drydotai/dry-go/client/internal/types"
)

// TokenSource supplies the bearer credential attached to outgoing requests.
// Implementations must be safe for concurrent use.
type TokenSource interface {
	// Token returns the current credential, or an error satisfying
	// errors.Is(err, ErrAuth) when no credential is available.
	Token(ctx context.Context) (string, error)
}

// staticTokenSource serves a fixed token, e.g. from WithToken.
type staticTokenSource string

func (s staticTokenSource) Token(context.Context) (string, error) { return string(s), nil }

// --------------------------------------------------------------------
// Email + code handshake
// --------------------------------------------------------------------

// AuthSession drives the passwordless login flow and owns the cached
// credential. One session is shared by all handles derived from a Client.
//
// The flow is two calls: Authenticate sends a verification code to the
// given email and returns a Challenge; SubmitCode exchanges the code the
// user received for a long-lived credential, which the session caches on
// disk so later clients skip the handshake entirely.
type AuthSession struct {
	http    *http.Client
	baseURL string
	store   *credstore.Store
	logger  zerolog.Logger

	mu   sync.Mutex
	cred *types.Credential
}

func newAuthSession(hc *http.Client, baseURL string, store *credstore.Store, logger zerolog.Logger) *AuthSession {
	return &AuthSession{http: hc, baseURL: baseURL, store: store, logger: logger}
}

// Challenge is the intermediate state between requesting a code and
// verifying it. A satisfied challenge (re-auth with a live credential)
// needs no SubmitCode call.
type Challenge struct {
	// UserID identifies the account the code was issued for.
	UserID string
	// Email the code was sent to.
	Email string
	// ExistingUser reports whether the account predates this handshake.
	ExistingUser bool

	satisfied bool
	cred      *types.Credential
}

// Satisfied reports whether the session already holds a live credential
// for this email, making SubmitCode unnecessary.
func (ch *Challenge) Satisfied() bool { return ch.satisfied }

// Authenticate begins the login flow for email. When the session already
// holds a live credential for the same address it returns a satisfied
// Challenge without any network traffic; otherwise the server emails a
// verification code and the returned Challenge must be completed with
// SubmitCode.
func (s *AuthSession) Authenticate(ctx context.Context, email string) (*Challenge, error) {
	if err := types.RequireEmail(email); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cred := s.cachedLocked(); cred.Valid() && matchesEmail(cred, email) {
		s.logger.Debug().Str("email", email).Msg("reusing cached credential")
		return &Challenge{
			UserID:       cred.UserID,
			Email:        cred.Email,
			ExistingUser: true,
			satisfied:    true,
			cred:         cred,
		}, nil
	}

	resp, err := api.RegisterUser(ctx, s.http, s.baseURL, email)
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.UserID == "" {
		msg := resp.Message
		if msg == "" {
			msg = "registration rejected"
		}
		return nil, apierrors.New(apierrors.KindAuth, msg)
	}
	if resp.Message != "" {
		s.logger.Info().Str("email", email).Msg(resp.Message)
	}
	return &Challenge{UserID: resp.UserID, Email: email, ExistingUser: resp.IsExistingUser}, nil
}

// SubmitCode completes the handshake with the code the user received. On
// success the credential is cached in memory and on disk; on failure
// nothing is cached and the challenge may be retried with another code.
func (s *AuthSession) SubmitCode(ctx context.Context, ch *Challenge, code string) (*Credential, error) {
	if ch == nil {
		return nil, apierrors.New(apierrors.KindValidation, "challenge must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ch.satisfied {
		return ch.cred, nil
	}
	if err := types.RequireText("code", code); err != nil {
		return nil, err
	}

	resp, err := api.VerifyEmail(ctx, s.http, s.baseURL, types.VerifyEmailRequest{
		Code:   strings.TrimSpace(code),
		UserID: ch.UserID,
		Email:  ch.Email,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success || !resp.Verified || resp.McpToken == "" {
		msg := resp.Message
		if msg == "" {
			msg = "verification failed"
		}
		return nil, apierrors.New(apierrors.KindAuth, msg)
	}

	cred := &types.Credential{
		Token:      resp.McpToken,
		Email:      ch.Email,
		UserID:     ch.UserID,
		ObtainedAt: time.Now().UTC(),
	}
	if err := s.store.Save(cred); err != nil {
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	s.cred = cred
	ch.satisfied = true
	ch.cred = cred
	if resp.Message != "" {
		s.logger.Info().Str("email", ch.Email).Msg(resp.Message)
	}
	return cred, nil
}

// Token implements TokenSource. DRY_AI_TOKEN wins over the cached
// credential so scripted environments never touch the credential file.
func (s *AuthSession) Token(ctx context.Context) (string, error) {
	if tok := os.Getenv(EnvToken); tok != "" {
		return tok, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cred := s.cachedLocked(); cred.Valid() {
		return cred.Token, nil
	}
	return "", apierrors.New(apierrors.KindAuth, "not authenticated: run the login flow or set "+EnvToken)
}

// Authenticated reports whether a usable credential is available without
// performing any network traffic.
func (s *AuthSession) Authenticated() bool {
	if os.Getenv(EnvToken) != "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedLocked().Valid()
}

// SignOut discards the in-memory credential and removes the on-disk cache.
func (s *AuthSession) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return s.store.Clear()
}

// cachedLocked returns the cached credential, loading it from disk on
// first use. Callers must hold s.mu.
func (s *AuthSession) cachedLocked() *types.Credential {
	if s.cred != nil {
		return s.cred
	}
	cred, err := s.store.Load()
	if err != nil {
		s.logger.Warn().Err(err).Msg("credential cache unreadable, re-authentication required")
		return nil
	}
	s.cred = cred
	return s.cred
}

func matchesEmail(cred *types.Credential, email string) bool {
	return cred.Email == "" || strings.EqualFold(cred.Email, email)
}
