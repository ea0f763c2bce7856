package client

import (
	"context"
	"errors"

	"github.com/drydotai/dry-go/client/internal/types"
)

// Done is returned by Results.Next when the sequence is exhausted.
var Done = errors.New("no more results")

// Results is a finite sequence of search matches. The first page arrives
// with the Search call itself; when the server hands back a continuation
// token, Next fetches the following page on demand. The sequence cannot
// be restarted - issue a new Search to observe fresh state. Not safe for
// concurrent use.
type Results struct {
	c      *Client
	folder string
	query  string

	buf  []*Item
	next string
	done bool
}

func newResults(c *Client, folder, query string, first *types.ItemsResponse) *Results {
	r := &Results{c: c, folder: folder, query: query}
	r.absorb(first)
	return r
}

func (r *Results) absorb(resp *types.ItemsResponse) {
	r.next = resp.Continuation
	for _, raw := range resp.Items {
		r.buf = append(r.buf, newItem(r.c, fieldsFromRaw(raw)))
	}
	// An empty page ends the sequence regardless of any token.
	if len(r.buf) == 0 {
		r.next = ""
	}
}

// Next returns the next matching item, or Done once the sequence is
// exhausted. At most one network round trip happens per call, and only
// when a continuation token is pending; read retries apply to that fetch.
// After a fetch error the sequence remains positioned where it was, so the
// call may be retried.
func (r *Results) Next(ctx context.Context) (*Item, error) {
	if len(r.buf) == 0 && !r.done && r.next != "" {
		resp, err := r.c.listPage(ctx, "search", r.folder, r.query, r.next)
		if err != nil {
			return nil, err
		}
		r.absorb(resp)
	}
	if len(r.buf) == 0 {
		r.done = true
		return nil, Done
	}
	it := r.buf[0]
	r.buf = r.buf[1:]
	return it, nil
}

// Collect drains the remaining sequence into a slice.
func (r *Results) Collect(ctx context.Context) ([]*Item, error) {
	var items []*Item
	for {
		it, err := r.Next(ctx)
		if errors.Is(err, Done) {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
}
