package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness and the active store backend.
func Health(backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": backend})
	}
}
