package middleware

import (
	"crypto/subtle"
	"net/http"

	"carrent/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthAdminMiddleware admits requests carrying the configured static admin token.
// With no token configured every request is refused.
func JWTAuthAdminMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   "notAuthenticated",
				Message: "Missing or invalid Authorization header",
			})
			return
		}
		if adminToken == "" || subtle.ConstantTimeCompare([]byte(tokenString), []byte(adminToken)) != 1 {
			getRequestLogger(c).Warn("unauthorized admin access")
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   "notAuthenticated",
				Message: "Unauthorized admin access",
			})
			return
		}

		c.Set(utils.ContextIsAdmin, true)
		c.Next()
	}
}
