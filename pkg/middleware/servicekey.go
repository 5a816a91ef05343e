package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"leadflow/pkg/utils"
)

// ServiceKeyMiddleware guards cron-only endpoints (the auto-debit sweep).
// Callers present the shared service key instead of a user token.
func ServiceKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("SERVICE_KEY")
		provided := c.GetHeader("X-Service-Key")

		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid service key")
			c.Abort()
			return
		}

		c.Next()
	}
}
