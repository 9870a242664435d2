// Package controller holds what the route packages share: error to status
// mapping and session lookup.
package controller

import (
	"errors"
	"net/http"

	"insynchub/middleware"
	"insynchub/model"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

// Error writes the response for a service error. Unexpected errors are
// attached to the context for the request logger and reported generically.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrWorkspaceMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "Record belongs to another workspace"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrUnknownWorkspace):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// Session returns the authenticated caller. Routes without the access token
// middleware get a 401.
func Session(c *gin.Context) (model.Session, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return sess, ok
}
