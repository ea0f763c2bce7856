package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestItemUpdate_ReflectsServerSnapshot(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeJSON(w, map[string]any{
				"items": []map[string]any{{"ID": "item-1", "Status": "open"}},
			})
		case http.MethodPut:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["item"] != "item-1" || body["query"] != "mark as done" {
				t.Errorf("payload unexpected: %+v", body)
			}
			// The server decides the stored value; the client must not guess.
			writeJSON(w, map[string]any{
				"items": []map[string]any{{"ID": "item-1", "Status": "completed"}},
			})
		default:
			t.Errorf("method unexpected: %s", r.Method)
		}
	}))

	item, err := c.Space("space-1").AddItem(context.Background(), "a task")
	if err != nil {
		t.Fatalf("AddItem unexpected error: %v", err)
	}
	if got := item.Field("status").Text(); got != "open" {
		t.Fatalf("initial status unexpected: %q", got)
	}

	if err := item.Update(context.Background(), "mark as done"); err != nil {
		t.Fatalf("Update unexpected error: %v", err)
	}
	if got := item.Field("status").Text(); got != "completed" {
		t.Fatalf("status after update: got=%q want=%q", got, "completed")
	}
}

func TestItemUpdate_BlankInstruction(t *testing.T) {
	t.Parallel()

	var hits hitCounter
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.inc()
	}))

	if err := c.Item("item-1").Update(context.Background(), "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if hits.count() != 0 {
		t.Fatalf("expected no network traffic, server saw %d requests", hits.count())
	}
}

func TestItemDelete_TerminatesHandle(t *testing.T) {
	t.Parallel()

	var hits hitCounter
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.inc()
		if r.Method != http.MethodDelete || r.URL.Query().Get("item") != "item-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.RawQuery)
		}
		writeJSON(w, map[string]any{"deleted": 1})
	}))

	item := c.Item("item-1")
	if err := item.Delete(context.Background()); err != nil {
		t.Fatalf("Delete unexpected error: %v", err)
	}

	if err := item.Update(context.Background(), "anything"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("update after delete: want invalid-state error, got %v", err)
	}
	if err := item.Delete(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second delete: want invalid-state error, got %v", err)
	}
	if hits.count() != 1 {
		t.Fatalf("deleted handle produced network traffic: %d requests", hits.count())
	}
}

func TestItemAccessors(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"items": []map[string]any{{
				"ID":          "item-1",
				"Name":        "Q3 report",
				"Description": "ship it",
				"URL":         "https://dry.ai/i/item-1",
				"DueDate":     "2026-09-30",
			}},
		})
	}))

	item, err := c.Space("space-1").AddItem(context.Background(), "a task")
	if err != nil {
		t.Fatalf("AddItem unexpected error: %v", err)
	}
	if item.Name() != "Q3 report" || item.Description() != "ship it" || item.URL() == "" {
		t.Fatalf("accessors unexpected: %q %q %q", item.Name(), item.Description(), item.URL())
	}
	due, ok := item.Field("dueDate").AsTime()
	if !ok || due.Year() != 2026 {
		t.Fatalf("due date unexpected: %v ok=%v", due, ok)
	}
	if !item.Fields().Has("description") {
		t.Fatalf("field set missing description: %v", item.Fields().Names())
	}
}
