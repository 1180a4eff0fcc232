package handlers

import (
	"forumlink/internal/middleware"
	"forumlink/internal/models"

	"github.com/gin-gonic/gin"
)

// CurrentUser returns the session user loaded by middleware, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User), true
	}
	return nil, false
}

// ViewerID returns the session user's id, 0 for anonymous requests.
func ViewerID(c *gin.Context) uint {
	if user, ok := CurrentUser(c); ok {
		return user.ID
	}
	return 0
}

// JSONError writes a uniform error payload.
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
