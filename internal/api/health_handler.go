package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rincondelcarmen/hotel-booking/internal/database"
)

// HealthHandler reports whether the store backend is reachable
type HealthHandler struct {
	backend database.Backend
	driver  string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(backend database.Backend, driver string) *HealthHandler {
	return &HealthHandler{backend: backend, driver: driver}
}

// Health pings the backend. SQL backends also report their pool.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.backend.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"healthy": false,
			"store":   h.driver,
			"error":   "store unreachable",
		})
		return
	}

	body := gin.H{
		"healthy":   true,
		"store":     h.driver,
		"timestamp": time.Now().UTC(),
	}
	if pool, ok := h.backend.(database.PoolReporter); ok {
		stats := pool.Stats()
		body["pool"] = gin.H{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
		}
	}
	c.JSON(http.StatusOK, body)
}
