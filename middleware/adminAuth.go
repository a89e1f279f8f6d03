package middleware

import (
	"net/http"

	"courtside/utils"

	"github.com/gin-gonic/gin"
)

// AdminAuth compares the bearer token with the configured admin key.
// An empty key disables the admin routes.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			return
		}
		if adminKey == "" || token != adminKey {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized admin access", "")
			return
		}
		c.Set("isAdmin", true)
		c.Next()
	}
}

// APIKeyAuth requires the X-Api-Key header to equal key.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" || c.GetHeader("X-Api-Key") != key {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid API key", "")
			return
		}
		c.Next()
	}
}
