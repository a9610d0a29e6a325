package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gbbinfo-knowledge-api/pkg/featureflags"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func serveFrom(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/beatboxer_tavily_search", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(3, 300*time.Millisecond)
	defer rl.Stop()

	// Full burst is available immediately
	assert.True(t, rl.Allow("127.0.0.1"))
	assert.True(t, rl.Allow("127.0.0.1"))
	assert.True(t, rl.Allow("127.0.0.1"))

	assert.False(t, rl.Allow("127.0.0.1"))

	// Different IP has its own bucket
	assert.True(t, rl.Allow("192.168.1.1"))

	// One token refills every window/3
	time.Sleep(150 * time.Millisecond)
	assert.True(t, rl.Allow("127.0.0.1"))
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := newRateLimiter(1, time.Second)
	defer rl.Stop()

	rl.Allow("127.0.0.1")
	rl.evictIdle(time.Now().Add(10 * time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.clients)
}

func TestRateLimitMiddleware_AllowsRequestsUnderLimit(t *testing.T) {
	limiter := NewRateLimiter(5)
	defer limiter.Stop()
	handler := RateLimitMiddleware(limiter, nil)(okHandler())

	for i := 0; i < 5; i++ {
		rec := serveFrom(handler, "127.0.0.1:1234")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitMiddleware_Returns429ForExceededLimit(t *testing.T) {
	limiter := NewRateLimiter(2)
	defer limiter.Stop()
	handler := RateLimitMiddleware(limiter, nil)(okHandler())

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serveFrom(handler, "127.0.0.1:1234").Code)
	}

	rec := serveFrom(handler, "127.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_UsesIPAddressForLimiting(t *testing.T) {
	limiter := NewRateLimiter(1)
	defer limiter.Stop()
	handler := RateLimitMiddleware(limiter, nil)(okHandler())

	assert.Equal(t, http.StatusOK, serveFrom(handler, "127.0.0.1:1234").Code)
	// Same IP on another port shares the bucket
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(handler, "127.0.0.1:9999").Code)
	assert.Equal(t, http.StatusOK, serveFrom(handler, "192.168.1.1:5678").Code)
}

func TestRateLimitMiddleware_DisabledByFlag(t *testing.T) {
	limiter := NewRateLimiter(1)
	defer limiter.Stop()
	flags := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.RateLimitEnabled: false,
	})
	handler := RateLimitMiddleware(limiter, flags)(okHandler())

	for i := 0; i < 3; i++ {
		rec := serveFrom(handler, "127.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}

	flags.SetEnabled(featureflags.RateLimitEnabled, true)
	assert.Equal(t, http.StatusOK, serveFrom(handler, "127.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(handler, "127.0.0.1:1234").Code)
	assert.True(t, flags.IsEnabled(context.Background(), featureflags.RateLimitEnabled))
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		setupReq   func(*http.Request)
		expectedIP string
	}{
		{
			name: "uses first X-Forwarded-For hop",
			setupReq: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.1, 198.51.100.2")
				r.RemoteAddr = "10.0.0.1:1234"
			},
			expectedIP: "203.0.113.1",
		},
		{
			name: "uses X-Real-IP header",
			setupReq: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "203.0.113.1")
				r.RemoteAddr = "10.0.0.1:1234"
			},
			expectedIP: "203.0.113.1",
		},
		{
			name: "falls back to RemoteAddr host",
			setupReq: func(r *http.Request) {
				r.RemoteAddr = "192.168.1.1:1234"
			},
			expectedIP: "192.168.1.1",
		},
		{
			name: "keeps RemoteAddr without port",
			setupReq: func(r *http.Request) {
				r.RemoteAddr = "192.168.1.1"
			},
			expectedIP: "192.168.1.1",
		},
		{
			name: "prefers X-Forwarded-For over X-Real-IP",
			setupReq: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.1")
				r.Header.Set("X-Real-IP", "198.51.100.1")
				r.RemoteAddr = "10.0.0.1:1234"
			},
			expectedIP: "203.0.113.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			tt.setupReq(req)

			assert.Equal(t, tt.expectedIP, extractIP(req))
		})
	}
}
