package handlers

import (
	"net/http"
	"time"

	"fitbook/internal/config"
	"fitbook/internal/infrastructure/database"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db           *gorm.DB
	cacheService interfaces.CacheService
}

// NewHealthHandler creates a new health handler. Either dependency may be
// nil when the deployment runs without it.
func NewHealthHandler(db *gorm.DB, cacheService interfaces.CacheService) *HealthHandler {
	return &HealthHandler{
		db:           db,
		cacheService: cacheService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	cfg := config.Get()

	status := "healthy"
	services := make(map[string]string)

	if h.db != nil {
		if err := database.HealthCheck(h.db); err != nil {
			services["database"] = "unhealthy"
			status = "degraded"
		} else {
			services["database"] = "healthy"
		}
	}

	if h.cacheService != nil {
		if err := h.cacheService.Health(c.Request.Context()); err != nil {
			services["cache"] = "unhealthy"
			status = "degraded"
		} else {
			services["cache"] = "healthy"
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Services:  services,
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, response)
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := database.HealthCheck(h.db); err != nil {
			c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"ready":     false,
				"timestamp": time.Now(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"ready":     true,
		"timestamp": time.Now(),
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now(),
	})
}
