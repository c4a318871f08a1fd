package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockdash/internal/logger"
)

const readyTimeout = 2 * time.Second

// HealthHandler provides liveness and readiness endpoints.
//
//   - /healthz: always 200 while the process serves requests.
//   - /readyz: 200 when the static store database answers a ping, or when no
//     database is configured; 503 otherwise.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler builds a HealthHandler. ping may be nil (fixtures-only deployments).
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Register mounts /healthz and /readyz on r.
func (h *HealthHandler) Register(r gin.IRoutes) {
	// @Summary      Liveness check
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// @Summary      Readiness check
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		if h.ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			defer cancel()
			if err := h.ping(ctx); err != nil {
				logger.Component("health").Warn().Err(err).Msg("static store not reachable")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
