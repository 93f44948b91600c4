package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	t time.Time
}

func (c *manualClock) Now() time.Time { return c.t }

func (c *manualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRateLimiter_Burst(t *testing.T) {
	rl := newRateLimiter(5, (&manualClock{t: fixedNow}).Now)

	for i := 0; i < 5; i++ {
		require.True(t, rl.Allow("10.0.0.1"), "request %d", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "clients have separate buckets")
}

func TestRateLimiter_Refill(t *testing.T) {
	clock := &manualClock{t: fixedNow}
	rl := newRateLimiter(10, clock.Now)

	for i := 0; i < 10; i++ {
		rl.Allow("a")
	}
	require.False(t, rl.Allow("a"))

	clock.Advance(100 * time.Millisecond)
	assert.True(t, rl.Allow("a"), "one token refills after a tenth of a second")
	assert.False(t, rl.Allow("a"))

	clock.Advance(time.Hour)
	allowed := 0
	for i := 0; i < 20; i++ {
		if rl.Allow("a") {
			allowed++
		}
	}
	assert.Equal(t, 10, allowed, "refill is capped at the burst size")
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	clock := &manualClock{t: fixedNow}
	rl := newRateLimiter(1, clock.Now)

	rl.Allow("a")
	rl.Allow("b")
	require.Equal(t, 2, rl.clients())

	clock.Advance(idleBucketTTL)
	rl.Allow("c")
	assert.Equal(t, 1, rl.clients())
}

func TestRateLimitMiddleware_Rejects(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(newRateLimiter(1, (&manualClock{t: fixedNow}).Now)))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("192.0.2.1:1234").Code)

	w := do("192.0.2.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "Too many requests", decodeProblem(t, w).Title)

	assert.Equal(t, http.StatusOK, do("192.0.2.2:1234").Code)
}
