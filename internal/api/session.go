package api

import (
	"errors"
	"io"
	"net/http"

	"tipster/internal/auth"
	"tipster/internal/domain"
	"tipster/internal/middleware"
	"tipster/internal/session"
	"tipster/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionHandler reports who is signed in and whether they may use the dashboard
func SessionHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, status, err := loadStatus(c, st, principal)
		if err != nil {
			respondError(c, err, "Failed to load account", logrus.Fields{"user_id": principal.UserID})
			return
		}
		resp := gin.H{
			"user_id": principal.UserID,
			"email":   principal.Email,
			"access":  auth.Decide(principal, status),
		}
		if user != nil {
			resp["user"] = viewUser(*user)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SessionEventsHandler streams identity changes as server-sent events. The
// first frame is the current state; the stream ends when this session signs out
// or the client disconnects. Sign-outs of the user's other sessions are skipped.
func SessionEventsHandler(p *auth.Provider, st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		sub, err := p.Subscribe(ctx, principal.UserID)
		if err != nil {
			respondError(c, err, "Failed to subscribe", logrus.Fields{"user_id": principal.UserID})
			return
		}
		defer sub.Close()

		_, status, err := loadStatus(c, st, principal)
		if err != nil {
			respondError(c, err, "Failed to load account", logrus.Fields{"user_id": principal.UserID})
			return
		}
		current := session.Event{UserID: principal.UserID, Email: principal.Email, Status: status, SignedIn: true}

		first := true
		c.Stream(func(io.Writer) bool {
			if first {
				first = false
				c.SSEvent("session", current)
				return true
			}
			for {
				select {
				case ev, ok := <-sub.C:
					if !ok {
						return false
					}
					if !ev.SignedIn && ev.TokenID != principal.TokenID {
						continue // Another session of the same user
					}
					ev.TokenID = ""
					c.SSEvent("session", ev)
					return ev.SignedIn
				case <-ctx.Done():
					return false
				}
			}
		})
	}
}

// loadStatus returns the account behind principal; a missing record yields no user
func loadStatus(c *gin.Context, st *store.Store, principal *auth.Principal) (*domain.User, domain.UserStatus, error) {
	user, err := st.UserByID(c.Request.Context(), principal.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return user, user.Status, nil
}
