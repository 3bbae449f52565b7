package services

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront/internal/logger"
)

// staticHost serves fixed bodies per path and counts requests.
type staticHost struct {
	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
	hits   map[string]int
	server *httptest.Server
}

func newStaticHost(t *testing.T) *staticHost {
	t.Helper()

	h := &staticHost{
		bodies: make(map[string]string),
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
	h.server = httptest.NewServer(http.HandlerFunc(h.serve))
	t.Cleanup(h.server.Close)
	return h
}

func (h *staticHost) serve(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hits[r.URL.Path]++
	if code, ok := h.status[r.URL.Path]; ok {
		w.WriteHeader(code)
		return
	}
	body, ok := h.bodies[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte(body))
}

func (h *staticHost) set(path, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.status, path)
	h.bodies[path] = body
}

func (h *staticHost) fail(path string, code int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status[path] = code
}

func (h *staticHost) hitCount(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[path]
}

func (h *staticHost) fetcher() *HTTPFetcher {
	return NewHTTPFetcher(h.server.URL+"/data/", 5*time.Second, logger.NoOpLogger{})
}
