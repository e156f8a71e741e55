package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/5G-MAG/m1-dashboard/internal/auth"
)

const (
	apiKeyHeader = "X-API-Key"
	// TokenCookie carries the login token for browser requests such as the
	// websocket upgrade and the view pages, which cannot set headers.
	TokenCookie = "m1_token"

	UsernameKey = "username"
)

// JWTAuth accepts a bearer token or the token cookie.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			return
		}

		claims, err := auth.ValidateToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			slog.Warn("Admin API key not configured, rejecting request",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Admin API is not configured",
			})
			return
		}

		providedKey := c.GetHeader(apiKeyHeader)
		if providedKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing API key",
			})
			return
		}

		if !validAPIKey(providedKey, apiKey) {
			slog.Warn("Invalid API key attempt",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API key",
			})
			return
		}

		c.Next()
	}
}

// AdminAuth protects the dashboard when login or an API key is configured.
// Either credential is accepted. With neither configured every request
// passes.
func AdminAuth(jwtSecret, apiKey string) gin.HandlerFunc {
	if jwtSecret == "" && apiKey == "" {
		return func(c *gin.Context) { c.Next() }
	}
	jwtAuth := JWTAuth(jwtSecret)
	apiKeyAuth := APIKeyAuth(apiKey)

	return func(c *gin.Context) {
		if apiKey != "" && c.GetHeader(apiKeyHeader) != "" {
			apiKeyAuth(c)
			return
		}
		if jwtSecret == "" {
			apiKeyAuth(c)
			return
		}
		jwtAuth(c)
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), true
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func validAPIKey(provided, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
