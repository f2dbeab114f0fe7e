package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"busly/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   RateLimitType
	}{
		{http.MethodGet, "/health", RateLimitTypeHealth},
		{http.MethodGet, "/metrics", RateLimitTypeHealth},
		{http.MethodPost, "/api/v1/auth/login", RateLimitTypeAuth},
		{http.MethodPost, "/api/v1/bookings", RateLimitTypeBooking},
		{http.MethodPost, "/api/v1/bookings/:id/cancel", RateLimitTypeBooking},
		{http.MethodGet, "/api/v1/bookings/:id", RateLimitTypeDefault},
		{http.MethodGet, "/api/v1/schedules/:id/seats", RateLimitTypePublic},
		{http.MethodGet, "/api/v1/unknown", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, getRateLimitType(tt.method, tt.path), "%s %s", tt.method, tt.path)
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.1:1234", "203.0.113.9"},
		{"bogus forwarded falls back", map[string]string{"X-Forwarded-For": "nope", "X-Real-IP": "198.51.100.4"}, "10.0.0.1:1234", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.7:5555", "192.0.2.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(c))
		})
	}
}

func TestLimiterBypasses(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 60,
		BookingRequests: 20,
		WhitelistedIPs:  []string{"10.1.1.1"},
	}

	// no Redis client means limiting is off
	res, err := NewRateLimiter(nil, cfg).IsAllowed(context.Background(), "192.0.2.1", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 20, res.Limit)

	cfg.Enabled = false
	res, err = NewRateLimiter(nil, cfg).IsAllowed(context.Background(), "192.0.2.1", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 60, res.Remaining)

	assert.True(t, NewRateLimiter(nil, cfg).isWhitelisted("10.1.1.1"))
}

func TestMiddlewareSetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(nil, config.RateLimitConfig{WindowDuration: time.Minute, PublicRequests: 100})

	r := gin.New()
	r.Use(Middleware(limiter))
	r.GET("/api/v1/schedules", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedules", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}
