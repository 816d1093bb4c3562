package handlers

import (
	"net/http"

	"carrent/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last health snapshot of the store and redis.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Store || !status.Redis {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status})
}
