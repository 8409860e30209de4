package middleware

import (
	"context"
	"errors"
	"net/http"

	"tipster/internal/auth"
	"tipster/internal/domain"
	"tipster/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserKey is the context key holding the *domain.User of an admitted account
const UserKey = "user"

// UserLoader fetches the account behind a principal
type UserLoader interface {
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// ActiveAccountMiddleware blocks pending and inactive accounts with their status
// notice. Administrators pass regardless of status.
func ActiveAccountMiddleware(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := users.UserByID(c.Request.Context(), principal.UserID)
		var status domain.UserStatus
		switch {
		case err == nil:
			status = user.Status
			c.Set(UserKey, user)
		case errors.Is(err, store.ErrNotFound):
			// No account record: only an administrator may continue
		default:
			logrus.WithFields(logrus.Fields{"user_id": principal.UserID, "error": err.Error()}).Error("Failed to load account status")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
			return
		}

		access := auth.Decide(principal, status)
		if !access.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account not active", "access": access})
			return
		}
		c.Next()
	}
}
