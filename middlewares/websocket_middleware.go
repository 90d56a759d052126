package middlewares

import (
	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/gin-gonic/gin"
)

func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		SetSession(c, Session{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}
