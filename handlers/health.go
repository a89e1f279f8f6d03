package handlers

import (
	"net/http"

	"courtside/utils"

	"github.com/gin-gonic/gin"
)

// HealthReporter returns the latest dependency check.
type HealthReporter interface {
	Status() utils.HealthStatus
}

// Health handles GET /health.
func Health(monitor HealthReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if monitor == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		st := monitor.Status()
		if !st.Healthy() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": st})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": st})
	}
}
