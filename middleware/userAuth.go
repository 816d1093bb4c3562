package middleware

import (
	"net/http"
	"strings"

	"carrent/utils"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// JWTAuthUserMiddleware resolves the caller from a signed bearer token and stores the user ID in
// the context. Issuing tokens is the job of the external account service.
func JWTAuthUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   "notAuthenticated",
				Message: "Insufficient authorization",
			})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			getRequestLogger(c).Debug("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   "notAuthenticated",
				Message: "Insufficient authorization",
			})
			return
		}

		c.Set(utils.ContextUserID, userID)
		c.Next()
	}
}
