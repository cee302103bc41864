package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the unauthenticated liveness probe.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "brand": "VALENCIRE"})
	}
}
