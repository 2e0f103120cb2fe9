package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/auth"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// RequireAuth validates the bearer token and stores the caller's id and
// role on the context.
func RequireAuth(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := m.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRoles only lets callers whose role is in allowedRoles through.
// Runs after RequireAuth.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := UserRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: no role on context"})
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: role not allowed"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id, 0 when unauthenticated.
func UserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// UserRole returns the authenticated caller's role.
func UserRole(c *gin.Context) string {
	return c.GetString(userRoleKey)
}
