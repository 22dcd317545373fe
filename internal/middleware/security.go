package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/logger"
	"github.com/rincondelcarmen/hotel-booking/pkg/config"
)

const maxBodyBytes = 1 << 20

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'")

		// Availability and reservations change with every booking
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}

// devOrigins are the local front-end ports accepted in development
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:8080",
}

// CORSMiddleware allows the configured front-ends to call the API with
// the session cookie
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	origins := cfg.GetAllowedOrigins()
	if len(origins) == 0 && cfg.IsDevelopment() {
		origins = devOrigins
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		// No origin configured: refuse every cross-origin request
		corsCfg.AllowOriginFunc = func(string) bool { return false }
	} else {
		corsCfg.AllowOrigins = origins
	}
	return cors.New(corsCfg)
}

// InputValidationMiddleware caps request bodies and requires JSON on
// mutating requests that carry one
func InputValidationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		}

		switch c.Request.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut:
			if c.Request.ContentLength > 0 && !strings.HasPrefix(c.GetHeader("Content-Type"), "application/json") {
				abortWithCode(c, http.StatusUnsupportedMediaType, errors.ErrCodeInvalidInput, "request body must be application/json")
				return
			}
		}

		c.Next()
	}
}

// RateLimiter counts requests per client IP over a sliding minute
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	clients map[string][]time.Time
}

// NewRateLimiter allows limit requests per client per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string][]time.Time),
	}
}

// Allow records a request from client and reports whether it is within the limit
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.clients[client][:0]
	for _, ts := range rl.clients[client] {
		if now.Sub(ts) <= rl.window {
			recent = append(recent, ts)
		}
	}
	if len(recent) >= rl.limit {
		rl.clients[client] = recent
		return false
	}
	rl.clients[client] = append(recent, now)
	return true
}

// RateLimitingMiddleware rejects clients over the limiter's budget
func RateLimitingMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			abortWithCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
			return
		}
		c.Next()
	}
}

// LoggingMiddleware logs every request with its outcome
func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if user := CurrentUser(c); user != nil {
			fields = append(fields, "user_id", user.ID)
		}

		switch {
		case status >= 500:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			log.Error("Request failed", err, fields...)
		case status >= 400:
			log.Warn("Request rejected", fields...)
		default:
			log.Info("Request handled", fields...)
		}
	}
}

// abortWithCode writes the API error body and stops the chain
func abortWithCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"code": code, "message": message},
	})
}
