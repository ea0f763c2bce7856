package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestSearch_SinglePage(t *testing.T) {
	t.Parallel()

	var hits hitCounter
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.inc()
		q := r.URL.Query()
		if q.Get("folder") != "space-1" || q.Get("query") != "open tasks" || q.Get("multi") != "true" {
			t.Errorf("query params unexpected: %v", q)
		}
		writeJSON(w, map[string]any{
			"items": []map[string]any{
				{"ID": "item-1", "Name": "first"},
				{"ID": "item-2", "Name": "second"},
			},
		})
	}))

	results, err := c.Space("space-1").Search(context.Background(), "open tasks")
	if err != nil {
		t.Fatalf("Search unexpected error: %v", err)
	}
	if hits.count() != 1 {
		t.Fatalf("Search should cost exactly one round trip, got %d", hits.count())
	}

	ctx := context.Background()
	first, err := results.Next(ctx)
	if err != nil || first.ID() != "item-1" {
		t.Fatalf("first unexpected: got=%v err=%v", first, err)
	}
	second, err := results.Next(ctx)
	if err != nil || second.ID() != "item-2" {
		t.Fatalf("second unexpected: got=%v err=%v", second, err)
	}
	if _, err := results.Next(ctx); !errors.Is(err, Done) {
		t.Fatalf("want Done, got %v", err)
	}
	// Exhausted sequences stay exhausted.
	if _, err := results.Next(ctx); !errors.Is(err, Done) {
		t.Fatalf("want Done on repeat, got %v", err)
	}
	if hits.count() != 1 {
		t.Fatalf("no continuation token, yet server saw %d requests", hits.count())
	}
}

func TestSearch_FollowsContinuationOnDemand(t *testing.T) {
	t.Parallel()

	var hits hitCounter
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.inc()
		switch r.URL.Query().Get("continuation") {
		case "":
			writeJSON(w, map[string]any{
				"items":        []map[string]any{{"ID": "item-1"}, {"ID": "item-2"}},
				"continuation": "page-2",
			})
		case "page-2":
			writeJSON(w, map[string]any{
				"items": []map[string]any{{"ID": "item-3"}},
			})
		default:
			t.Errorf("continuation unexpected: %q", r.URL.Query().Get("continuation"))
		}
	}))

	results, err := c.Space("space-1").Search(context.Background(), "everything")
	if err != nil {
		t.Fatalf("Search unexpected error: %v", err)
	}

	ctx := context.Background()
	for _, want := range []string{"item-1", "item-2"} {
		it, err := results.Next(ctx)
		if err != nil || it.ID() != want {
			t.Fatalf("next unexpected: got=%v err=%v want=%s", it, err, want)
		}
	}
	if hits.count() != 1 {
		t.Fatalf("second page fetched before demand: %d requests", hits.count())
	}

	it, err := results.Next(ctx)
	if err != nil || it.ID() != "item-3" {
		t.Fatalf("third unexpected: got=%v err=%v", it, err)
	}
	if hits.count() != 2 {
		t.Fatalf("expected 2 round trips after continuation, got %d", hits.count())
	}
	if _, err := results.Next(ctx); !errors.Is(err, Done) {
		t.Fatalf("want Done, got %v", err)
	}
}

func TestSearch_EmptyResult(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []map[string]any{}})
	}))

	results, err := c.Space("space-1").Search(context.Background(), "nothing matches this")
	if err != nil {
		t.Fatalf("Search unexpected error: %v", err)
	}
	if _, err := results.Next(context.Background()); !errors.Is(err, Done) {
		t.Fatalf("want Done, got %v", err)
	}
}

func TestSearchCollect_DrainsAllPages(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("continuation") == "" {
			writeJSON(w, map[string]any{
				"items":        []map[string]any{{"ID": "item-1"}},
				"continuation": "more",
			})
			return
		}
		writeJSON(w, map[string]any{
			"items": []map[string]any{{"ID": "item-2"}, {"ID": "item-3"}},
		})
	}))

	results, err := c.Space("space-1").Search(context.Background(), "everything")
	if err != nil {
		t.Fatalf("Search unexpected error: %v", err)
	}
	items, err := results.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect unexpected error: %v", err)
	}
	if len(items) != 3 || items[2].ID() != "item-3" {
		t.Fatalf("items unexpected: %+v", items)
	}
}

func TestSearch_PageFetchErrorLeavesSequenceResumable(t *testing.T) {
	t.Parallel()

	var pageTwo hitCounter
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("continuation") == "" {
			writeJSON(w, map[string]any{
				"items":        []map[string]any{{"ID": "item-1"}},
				"continuation": "page-2",
			})
			return
		}
		pageTwo.inc()
		if pageTwo.count() == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"backend unavailable"}`))
			return
		}
		writeJSON(w, map[string]any{"items": []map[string]any{{"ID": "item-2"}}})
	}))

	results, err := c.Space("space-1").Search(context.Background(), "everything")
	if err != nil {
		t.Fatalf("Search unexpected error: %v", err)
	}

	ctx := context.Background()
	if _, err := results.Next(ctx); err != nil {
		t.Fatalf("first unexpected error: %v", err)
	}
	if _, err := results.Next(ctx); !errors.Is(err, ErrRemote) {
		t.Fatalf("want remote error from failed page fetch, got %v", err)
	}
	// The failed fetch must not consume the continuation.
	it, err := results.Next(ctx)
	if err != nil || it.ID() != "item-2" {
		t.Fatalf("resume unexpected: got=%v err=%v", it, err)
	}
	if _, err := results.Next(ctx); !errors.Is(err, Done) {
		t.Fatalf("want Done, got %v", err)
	}
}

func TestSearch_RateLimitSurfaced(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))

	_, err := c.Space("space-1").Search(context.Background(), "open tasks")
	if !errors.Is(err, ErrRateLimit) {
		t.Fatalf("want rate-limit error, got %v", err)
	}
	if d, ok := RetryAfter(err); !ok || d.Seconds() != 7 {
		t.Fatalf("retry-after hint unexpected: %v ok=%v", d, ok)
	}
}
