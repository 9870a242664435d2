package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"insynchub/model"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey      = "session"
	refreshTokenKey = "refreshToken"
)

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.Request.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// AccessTokenMiddleware verifies the bearer access token and stores the
// caller's model.Session on the context.
func AccessTokenMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		claims, err := tokens.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is expired or invalid"})
			return
		}
		if claims.UserID == "" || !model.IsWorkspace(claims.WorkspaceID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Set(sessionKey, claims.Session())
		c.Next()
	}
}

// RefreshTokenMiddleware only extracts the bearer refresh token; the auth
// service verifies it against the stored session.
func RefreshTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is missing"})
			return
		}
		c.Set(refreshTokenKey, token)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles. It must run
// after AccessTokenMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
			return
		}
		if !model.HasRole(sess.Role, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// CronSecret guards the reminder sweep. An empty secret leaves the endpoint
// open, which is how local development runs it.
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func GetSession(c *gin.Context) (model.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return model.Session{}, false
	}
	sess, ok := v.(model.Session)
	return sess, ok
}

func GetRefreshToken(c *gin.Context) string {
	return c.GetString(refreshTokenKey)
}
