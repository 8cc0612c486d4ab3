package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/config"
	"github.com/undergraduation/ugadmin/internal/pkg/logger"
)

// Pinger reports whether the backing data store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes
type HealthController struct {
	cfg *config.Config
	db  Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(cfg *config.Config, db Pinger) *HealthController {
	return &HealthController{
		cfg: cfg,
		db:  db,
	}
}

// Liveness reports process liveness
// @Summary Liveness probe
// @Description Reports that the process is running, without touching dependencies
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is alive"
// @Router /health/liveness [get]
func (c *HealthController) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:      "ok",
		Version:     c.cfg.App.Version,
		Environment: c.cfg.App.Environment,
	})
}

// Readiness reports readiness to serve traffic
// @Summary Readiness probe
// @Description Reports whether the database is reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.ReadinessResponse "Dependencies reachable"
// @Failure 503 {object} dto.ReadinessResponse "Database unreachable"
// @Router /health/readiness [get]
func (c *HealthController) Readiness(ctx *gin.Context) {
	if err := c.db.Ping(ctx.Request.Context()); err != nil {
		logger.Warn().Err(err).Msg("Readiness check failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.ReadinessResponse{Status: "down"})
		return
	}

	ctx.JSON(http.StatusOK, dto.ReadinessResponse{Status: "up"})
}
