package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(ctx context.Context, rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := discardLogger()

	router := gin.New()
	router.Use(PrincipalMiddleware(testHeader, logger))
	router.Use(RateLimitMiddleware(ctx, rps, burst, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router := newRateLimitedRouter(ctx, 10, 20)

	for range 5 {
		assert.Equal(t, http.StatusOK, doRequest(router, "alice@example.com").Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router := newRateLimitedRouter(ctx, 1, 2)

	assert.Equal(t, http.StatusOK, doRequest(router, "alice@example.com").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "alice@example.com").Code)

	w := doRequest(router, "alice@example.com")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddleware_IndependentPerPrincipal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router := newRateLimitedRouter(ctx, 1, 1)

	assert.Equal(t, http.StatusOK, doRequest(router, "alice@example.com").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "alice@example.com").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "bob@example.com").Code)
}

func TestRateLimitMiddleware_RequiresPrincipal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitMiddleware(ctx, 1, 1, discardLogger()))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiterStore_EvictIdle(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	first := store.getLimiter("alice@example.com")
	assert.Same(t, first, store.getLimiter("alice@example.com"))

	store.evictIdle(time.Now().Add(time.Minute))

	_, ok := store.limiters.Load("alice@example.com")
	assert.False(t, ok)
	assert.NotSame(t, first, store.getLimiter("alice@example.com"))
}

func TestRateLimiterStore_CleanupStopsWithContext(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		store.cleanupStale(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop")
	}
}
