package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIdentity takes the caller's id from the X-User-ID header set by the
// gateway in front of this service.
func UserIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
				Code:    "unauthorized",
			})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}
