package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedRequest(rl *RateLimiter, ip string) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	rl := NewRateLimiter(60, 2)

	require.NoError(t, rateLimitedRequest(rl, "10.0.0.1"))
	require.NoError(t, rateLimitedRequest(rl, "10.0.0.1"))

	err := rateLimitedRequest(rl, "10.0.0.1")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)

	// Budgets are per client; another IP is unaffected.
	assert.NoError(t, rateLimitedRequest(rl, "10.0.0.2"))
}

func TestRateLimiterCleanupLoop(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	rl.StartCleanup(5*time.Millisecond, time.Nanosecond)
	defer rl.Stop()

	require.NoError(t, rateLimitedRequest(rl, "10.0.0.1"))

	assert.Eventually(t, func() bool {
		rl.mutex.Lock()
		defer rl.mutex.Unlock()
		return len(rl.limiters) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	require.NoError(t, rateLimitedRequest(rl, "10.0.0.1"))
	require.Len(t, rl.limiters, 1)

	rl.Cleanup(time.Nanosecond)
	time.Sleep(time.Millisecond)
	rl.Cleanup(time.Nanosecond)
	assert.Empty(t, rl.limiters)
}
