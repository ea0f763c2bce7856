package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
)

// newTestClient builds a Client against an httptest server with the
// credential cache isolated under t.TempDir.
func newTestClient(t *testing.T, h http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	all := append([]Option{
		WithServerURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithCredentialFile(filepath.Join(t.TempDir(), "credentials.json")),
	}, opts...)
	c, err := New(all...)
	if err != nil {
		t.Fatalf("New unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// hitCounter counts requests reaching a fake server; handlers run on server
// goroutines, so the count is atomic.
type hitCounter struct{ n int32 }

func (h *hitCounter) inc()       { atomic.AddInt32(&h.n, 1) }
func (h *hitCounter) count() int { return int(atomic.LoadInt32(&h.n)) }

// timeoutNetError satisfies net.Error with Timeout() == true.
type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

// flakyTransport times out the first fail requests, then delegates.
type flakyTransport struct {
	base http.RoundTripper
	fail int32
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if atomic.AddInt32(&f.fail, -1) >= 0 {
		return nil, timeoutNetError{}
	}
	return f.base.RoundTrip(req)
}
