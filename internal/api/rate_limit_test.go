package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	limit int
	count map[string]int
	err   error
}

func (f *fakeLimiter) Limit() int { return f.limit }

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	if f.err != nil {
		return false, 0, time.Time{}, f.err
	}
	f.count[key]++
	remaining := f.limit - f.count[key]
	if remaining < 0 {
		remaining = 0
	}
	return f.count[key] <= f.limit, remaining, time.Now().Add(time.Hour), nil
}

func limitedRouter(l Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/generate-recipe", RateLimit(l), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimit(t *testing.T) {
	r := limitedRouter(&fakeLimiter{limit: 2, count: map[string]int{}})

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate-recipe", nil))
		codes = append(codes, rr.Code)
		last = rr
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, last.Body.String(), "rate limit exceeded")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := limitedRouter(&fakeLimiter{limit: 1, err: errors.New("redis down")})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate-recipe", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "rate limit check failed", rr.Header().Get("X-RateLimit-Error"))
}
