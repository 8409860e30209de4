package middleware

import (
	"context"  // Request context
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"tipster/internal/auth" // Identity provider

	"github.com/gin-gonic/gin" // Gin web framework
)

// PrincipalKey is the context key holding the *auth.Principal
const PrincipalKey = "principal"

// Authenticator validates bearer tokens
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// JWTAuthMiddleware validates JWT tokens and stores the principal in the context
func JWTAuthMiddleware(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")           // Extract the token string
		principal, err := a.Authenticate(c.Request.Context(), tokenStr) // Parse and check revocation
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(PrincipalKey, principal) // Store principal in context
		c.Next()                       // Proceed to the next handler
	}
}

// CurrentPrincipal returns the principal stored by JWTAuthMiddleware
func CurrentPrincipal(c *gin.Context) (*auth.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*auth.Principal)
	return p, ok && p != nil
}
