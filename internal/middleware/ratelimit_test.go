package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/videolib/internal/logging"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(handlers...)
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doRequest(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, 2) // 2 requests per second, burst of 2
	router := newTestRouter(RateLimit(rl))

	// First two requests should succeed
	for i := 0; i < 2; i++ {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// Third request should be rate limited
	w := doRequest(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Rate limit exceeded"}`, w.Body.String())
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	router := newTestRouter(RateLimit(rl))

	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.2:1234").Code)
	assert.Equal(t, 2, rl.Size())
}

func TestRateLimiter_Evict(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10)
	rl.now = func() time.Time { return now }

	rl.getLimiter("ip:a")
	now = now.Add(5 * time.Minute)
	rl.getLimiter("ip:b")

	removed := rl.Evict(time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, rl.Size())

	rl.mu.RLock()
	_, ok := rl.visitors["ip:b"]
	rl.mu.RUnlock()
	assert.True(t, ok)
}

func TestRateLimiter_CleanupStopsOnCancel(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.Cleanup(ctx, time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cleanup did not stop after cancel")
	}
}

type stubChecker struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubChecker) CheckRateLimit(_ context.Context, key string, _ int64, _ time.Duration) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func TestSharedRateLimit(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		checker := &stubChecker{allowed: true}
		router := newTestRouter(SharedRateLimit(checker, 5, time.Minute, logging.Nop()))

		w := doRequest(router, "10.0.0.9:555")
		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, checker.keys, 1)
		assert.Equal(t, "ip:10.0.0.9", checker.keys[0])
	})

	t.Run("rejected", func(t *testing.T) {
		router := newTestRouter(SharedRateLimit(&stubChecker{allowed: false}, 5, time.Minute, logging.Nop()))

		w := doRequest(router, "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("backend error fails open", func(t *testing.T) {
		checker := &stubChecker{err: errors.New("connection refused")}
		router := newTestRouter(SharedRateLimit(checker, 5, time.Minute, logging.Nop()))

		w := doRequest(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
