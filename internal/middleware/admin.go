package middleware

import (
	"net/http" // HTTP status codes

	"tipster/internal/auth" // Roles

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRole lets the request through only when the principal holds role
func RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c) // Get principal from context
		// Check if principal exists in context
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Check the role claim issued at sign-in
		if !principal.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// AdminOnlyMiddleware is RequireRole for the administrator role
func AdminOnlyMiddleware() gin.HandlerFunc {
	return RequireRole(auth.RoleAdmin)
}
