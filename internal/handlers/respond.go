package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends the uniform failure envelope. Nothing internal leaks to
// the client; the caller logs details separately when they matter.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondServerError logs the underlying failure and hides it behind a
// generic message.
func respondServerError(c *gin.Context, area string, err error) {
	log.Printf("[%s] [ERROR] %v", area, err)
	respondError(c, http.StatusInternalServerError, "Something went wrong")
}
