package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-search/internal/shared/auth"
	"resume-search/internal/shared/server/respond"
)

const sessionIDKey = "sessionId"

// Session resolves the caller's session identity. A Bearer token issued by
// the Google login flow yields a stable session id; otherwise the anonymous
// X-Session-Id header is accepted. Every document, cache entry, and search is
// scoped to this identity.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		path := c.Request.URL.Path
		if path == "/api/v1/health" || strings.HasPrefix(path, "/api/v1/auth/google/") {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if !strings.HasPrefix(authHeader, "Bearer ") || token == "" {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			claims, err := auth.VerifyJWT(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			c.Set(sessionIDKey, claims.Sub)
			c.Next()
			return
		}

		anonID := strings.TrimSpace(c.GetHeader("X-Session-Id"))
		if anonID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing session identity", nil)
			return
		}
		c.Set(sessionIDKey, "anon:"+anonID)
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID set by the Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
