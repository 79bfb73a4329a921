package handler

import (
	"errors"
	"log"
	"net/http"

	"campusanon/internal/pkg"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP. Unexpected errors
// are logged and masked as a plain 500.
func respondError(c *gin.Context, err error) {
	var ae *pkg.AppError
	if errors.As(err, &ae) {
		c.JSON(ae.Status, gin.H{"error": ae.Message, "code": ae.Code})
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
