package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NowPlaying proxies the owner's most recent track for the music widget.
func (e *Env) NowPlaying(c *gin.Context) {
	now, err := e.Music.NowPlaying(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching now playing: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch now playing"})
		return
	}
	c.JSON(http.StatusOK, now)
}
