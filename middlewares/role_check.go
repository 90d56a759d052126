package middlewares

import (
	"fmt"
	"net/http"

	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/gin-gonic/gin"
)

// RequireRole guards a route group. Admin passes every check.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, exists := SessionFrom(c)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if sess.Role == "admin" {
			c.Next()
			return
		}

		for _, role := range roles {
			if sess.Role == role {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", roles[0]))
		c.Abort()
	}
}
