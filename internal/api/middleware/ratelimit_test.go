package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rl *RateLimiter) http.Handler {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(rl.Handler)
		r.Get("/artwork/explore", ok)
		r.Get("/events", ok)
		r.Route("/messages", func(r chi.Router) {
			r.Post("/{receiverId}", ok)
		})
	})
	return r
}

func serve(h http.Handler, method, remote, path string) int {
	r := httptest.NewRequest(method, path, nil)
	r.RemoteAddr = remote
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w.Code
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, time.Minute)
	defer rl.Stop()
	h := newLimitedRouter(rl)

	assert.Equal(t, http.StatusNoContent, serve(h, http.MethodGet, "10.0.0.1:5000", "/api/artwork/explore"))
	assert.Equal(t, http.StatusNoContent, serve(h, http.MethodGet, "10.0.0.1:5001", "/api/artwork/explore"))
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "10.0.0.1:5002", "/api/artwork/explore"))

	// Separate buckets per IP and per route.
	assert.Equal(t, http.StatusNoContent, serve(h, http.MethodGet, "10.0.0.2:5000", "/api/artwork/explore"))
	assert.Equal(t, http.StatusNoContent, serve(h, http.MethodGet, "10.0.0.1:5000", "/api/events"))

	rl.Stop()
	rl.Stop()
}

func TestRateLimiter_PathParametersShareBucket(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, time.Minute)
	defer rl.Stop()
	h := newLimitedRouter(rl)

	allowed := 0
	for i := 0; i < 20; i++ {
		if serve(h, http.MethodPost, "10.0.0.1:5000", fmt.Sprintf("/api/messages/%d", i)) == http.StatusNoContent {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)

	// Unknown paths collapse into one bucket as well.
	for i := 0; i < 20; i++ {
		serve(h, http.MethodGet, "10.0.0.1:5000", fmt.Sprintf("/api/scan/%d", i))
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.m, 2)
	assert.Contains(t, rl.m, "10.0.0.1|POST /api/messages/{receiverId}")
	assert.Contains(t, rl.m, "10.0.0.1|GET unmatched")
}
