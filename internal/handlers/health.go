package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propdata-pk/propdata/internal/middleware"
	"github.com/propdata-pk/propdata/internal/services"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout is the timeout for history store health checks
	HealthCheckTimeout = 2 * time.Second
)

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	service   services.ValuationService
	startTime time.Time
	env       string
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(service services.ValuationService, env string) *HealthHandler {
	return &HealthHandler{
		service:   service,
		startTime: time.Now(),
		env:       env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status  string `json:"status"`
	History string `json:"history"`
}

// MarketSummary describes the loaded market definition.
type MarketSummary struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Currency  string `json:"currency"`
	Unit      string `json:"unit"`
	AreaCount int    `json:"area_count"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string        `json:"version"`
	Environment string        `json:"environment"`
	Uptime      string        `json:"uptime"`
	Market      MarketSummary `json:"market"`
}

// Health handles GET /health endpoint.
// This is a basic health check that always returns 200 OK.
// It does not check any dependencies and is used for basic liveness checks.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// The valuation engine has no external dependencies, so readiness only
// depends on the history store when one is configured.
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.service.HistoryEnabled() {
		c.JSON(http.StatusOK, ReadyResponse{
			Status:  "ready",
			History: "disabled",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("History store health check failed", err, map[string]interface{}{
				"timeout": HealthCheckTimeout.String(),
			})
		}

		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status:  "not_ready",
			History: "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:  "ready",
		History: "connected",
	})
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, uptime and the
// market definition in use.
func (h *HealthHandler) Info(c *gin.Context) {
	m := h.service.Market()

	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(time.Since(h.startTime)),
		Market: MarketSummary{
			Name:      m.Name,
			Version:   m.Version,
			Currency:  m.Currency,
			Unit:      m.Unit,
			AreaCount: len(h.service.Areas("")),
		},
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
