package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bizline/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		defer limiter.Stop()

		for i := 0; i < 3; i++ {
			ok, remaining := limiter.Allow("client")
			assert.True(t, ok, "request %d should be allowed", i+1)
			assert.Equal(t, 2-i, remaining)
		}
		ok, remaining := limiter.Allow("client")
		assert.False(t, ok)
		assert.Zero(t, remaining)
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		defer limiter.Stop()

		ok, _ := limiter.Allow("a")
		assert.True(t, ok)
		ok, _ = limiter.Allow("b")
		assert.True(t, ok)
		ok, _ = limiter.Allow("a")
		assert.False(t, ok)
	})

	t.Run("window resets", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		defer limiter.Stop()
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }

		ok, _ := limiter.Allow("a")
		assert.True(t, ok)
		ok, _ = limiter.Allow("a")
		assert.False(t, ok)

		now = now.Add(time.Minute)
		ok, _ = limiter.Allow("a")
		assert.True(t, ok)
	})

	t.Run("concurrent use", func(t *testing.T) {
		limiter := NewRateLimiter(50, time.Minute)
		defer limiter.Stop()

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := limiter.Allow("shared"); ok {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()

	router := gin.New()
	router.Use(RateLimit(limiter))
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, dto.ErrCodeRateLimited, decodeResponse(t, w).Error.Code)
}
