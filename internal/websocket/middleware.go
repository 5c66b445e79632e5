package websocket

import (
	"net/http"

	"github.com/cleberrangel/task-tracker-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a WebSocket authentication middleware
// It checks for session authentication via cookie or query parameter
func AuthMiddleware(authMiddleware *middleware.SessionAuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string
		var err error

		// First try to get session from cookie
		sessionID, err = c.Cookie("session_id")
		if err != nil {
			// If cookie is not available, try query parameter (for WebSocket connections)
			sessionID = c.Query("session_id")
			if sessionID == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"error":   "Sessão não encontrada",
					"code":    "SESSION_NOT_FOUND",
				})
				return
			}
		}

		// Validate session
		session, valid := authMiddleware.GetSession(sessionID)
		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Sessão inválida ou expirada",
				"code":    "SESSION_INVALID",
			})
			return
		}

		// Add session info to context
		c.Set("session", session)
		c.Set("user_id", session.UserID)
		c.Set("username", session.Username)

		c.Next()
	}
}
