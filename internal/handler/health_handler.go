package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offerfinder/internal/service"
	"github.com/GTDGit/offerfinder/internal/utils"
)

var startTime = time.Now()

// DBPinger is satisfied by *sqlx.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger is satisfied by *cache.RedisClient.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db        DBPinger
	redis     CachePinger
	reference service.CatalogProvider
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// search cache is disabled.
func NewHealthHandler(db DBPinger, redis CachePinger, reference service.CatalogProvider) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, reference: reference}
}

// GetHealth responds with database, cache and catalog status. Only a
// database failure makes the service unhealthy.
// GET /v1/health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		utils.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "Database is unreachable")
		return
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "disconnected"
		}
	}

	utils.Success(c, http.StatusOK, "Service is healthy", gin.H{
		"status":   "healthy",
		"version":  "1.0.0",
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": "connected",
		"redis":    redisStatus,
		"catalog": gin.H{
			"loadedAt": h.reference.Catalog().LoadedAt,
		},
	})
}
