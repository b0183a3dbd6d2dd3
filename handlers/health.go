package handlers

import (
	"context"
	"net/http"
	"time"

	"voyago/config"
	"voyago/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness plus the latest dependency snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"message":      "Hi, I'm Voyago",
		"dependencies": utils.GetHealthStatus(),
	})
}

// ModelHealthHandler reports whether a model API key is configured.
func ModelHealthHandler(c *gin.Context) {
	if config.AppConfig.GeminiAPIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"detail": "model API key not configured",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"model":  config.AppConfig.GeminiModel,
	})
}

// TravelHealthHandler reports whether the travel data provider is reachable.
// Without credentials the service still works on built-in mock data.
func (hb *HandlerBundle) TravelHealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := hb.Travel.Ready(ctx); err != nil {
		status := "degraded"
		if config.AppConfig.DisableMockFallback {
			status = "unavailable"
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": status,
			"detail": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
