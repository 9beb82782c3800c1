package rate_limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterSlidingWindow(t *testing.T) {
	now := time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.IsAllowed("a"))
	assert.True(t, rl.IsAllowed("a"))
	assert.False(t, rl.IsAllowed("a"))
	assert.True(t, rl.IsAllowed("b"))
	assert.Equal(t, 0, rl.GetRemainingRequests("a"))
	assert.Equal(t, 1, rl.GetRemainingRequests("b"))

	now = now.Add(61 * time.Second)
	assert.Equal(t, 2, rl.GetRemainingRequests("a"))
	assert.True(t, rl.IsAllowed("a"))

	rl.cleanup()
	assert.NotContains(t, rl.requests, "b")
	assert.Contains(t, rl.requests, "a")
}

func TestRateLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.POST("/upload", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1, 172.16.0.1").Code)

	w := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}
