package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestReadRetry_RecoversFromTimeout(t *testing.T) {
	t.Parallel()

	var hits hitCounter
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.inc()
		writeJSON(w, map[string]any{"item": map[string]any{"ID": "space-1"}})
	}),
		WithHTTPClient(&http.Client{Transport: &flakyTransport{base: http.DefaultTransport, fail: 1}}),
		WithReadRetries(2),
	)

	space, err := c.GetSpaceByID(context.Background(), "space-1")
	if err != nil {
		t.Fatalf("GetSpaceByID should recover after retry: %v", err)
	}
	if space.ID() != "space-1" {
		t.Fatalf("space unexpected: %q", space.ID())
	}
	if hits.count() != 1 {
		t.Fatalf("server hits unexpected: got=%d want=1", hits.count())
	}
}

func TestReadRetry_BoundRespected(t *testing.T) {
	t.Parallel()

	var hits hitCounter
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.inc()
	}),
		WithHTTPClient(&http.Client{Transport: &flakyTransport{base: http.DefaultTransport, fail: 5}}),
		WithReadRetries(1),
	)

	_, err := c.GetSpaceByID(context.Background(), "space-1")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("want timeout error after exhausting retries, got %v", err)
	}
	if hits.count() != 0 {
		t.Fatalf("requests should have died in transport, server saw %d", hits.count())
	}
}

func TestReadRetry_DisabledByDefault(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"item": map[string]any{"ID": "space-1"}})
	}),
		WithHTTPClient(&http.Client{Transport: &flakyTransport{base: http.DefaultTransport, fail: 1}}),
	)

	if _, err := c.GetSpaceByID(context.Background(), "space-1"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("want timeout error with retries disabled, got %v", err)
	}
}

func TestMutations_NeverRetried(t *testing.T) {
	t.Parallel()

	var hits hitCounter
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.inc()
	}),
		WithHTTPClient(&http.Client{Transport: &flakyTransport{base: http.DefaultTransport, fail: 10}}),
		WithReadRetries(3),
	)

	ctx := context.Background()
	space := c.Space("space-1")
	if _, err := space.AddItem(ctx, "a task"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("AddItem: want timeout error, got %v", err)
	}
	if err := c.Item("item-1").Update(ctx, "mark as done"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Update: want timeout error, got %v", err)
	}
	if err := space.Delete(ctx); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Delete: want timeout error, got %v", err)
	}
	// Three calls, three transport attempts, zero retries: the transport
	// consumed exactly one failure per call and the server saw nothing.
	if hits.count() != 0 {
		t.Fatalf("server hits unexpected: %d", hits.count())
	}
	// A failed Delete must leave the handle usable.
	if err := space.Delete(ctx); !errors.Is(err, ErrTimeout) {
		t.Fatalf("retried Delete: want timeout error, got %v", err)
	}
}

func TestRateLimit_NeverRetried(t *testing.T) {
	t.Parallel()

	var hits hitCounter
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.inc()
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}), WithReadRetries(3))

	_, err := c.GetSpace(context.Background(), "anything")
	if !errors.Is(err, ErrRateLimit) {
		t.Fatalf("want rate-limit error, got %v", err)
	}
	if hits.count() != 1 {
		t.Fatalf("throttled call must not be retried: %d hits", hits.count())
	}
	if d, ok := RetryAfter(err); !ok || d != 30*time.Second {
		t.Fatalf("retry-after hint unexpected: %v ok=%v", d, ok)
	}
}

func TestRetryAfter_AbsentOnOtherErrors(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))

	_, err := c.GetSpace(context.Background(), "anything")
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("want remote error, got %v", err)
	}
	if _, ok := RetryAfter(err); ok {
		t.Fatalf("retry-after hint should be absent")
	}
	if _, ok := RetryAfter(nil); ok {
		t.Fatalf("retry-after on nil should be absent")
	}
}
