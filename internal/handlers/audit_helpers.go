package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chatroom-service/internal/middleware"
)

const actorContextKey = "actor"

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

// setActor records who performed the request for audit events.
func setActor(c *gin.Context, actor string) {
	if actor != "" {
		c.Set(actorContextKey, actor)
	}
}

func actorFromContext(c *gin.Context) *string {
	if actor := c.GetString(actorContextKey); actor != "" {
		return &actor
	}
	return nil
}
