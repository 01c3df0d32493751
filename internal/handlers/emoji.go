package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatroom-service/internal/emoji"
)

// ListEmojis handles GET /emojis.
func ListEmojis(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"emojis": emoji.All()})
}

// RandomEmoji handles GET /emojis/random.
func RandomEmoji(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"emoji": emoji.Random()})
}
