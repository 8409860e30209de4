package api

import (
	"net/http" // HTTP status codes

	"tipster/internal/auth"   // Identity provider
	"tipster/internal/domain" // Importing domain models
	"tipster/internal/ledger" // Settlement core
	"tipster/internal/store"  // Data access
	"tipster/internal/utils"  // Pagination

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// ResolveRequest carries the result of a bet
type ResolveRequest struct {
	Outcome string `json:"outcome" binding:"required"` // won or lost
}

// ListUsersHandler returns users newest first, optionally filtered by status
func ListUsersHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.ParsePage(c.Query("page"), c.Query("page_size")) // Parse pagination
		status := domain.UserStatus(c.Query("status"))                 // Optional status filter
		if status != "" && !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		res, err := st.ListUsers(c.Request.Context(), status, page)
		if err != nil {
			respondError(c, err, "Failed to fetch users", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users":       viewUsers(res.Items), // List of users
			"page":        res.Page,             // Current page
			"page_size":   res.PageSize,         // Page size
			"total":       res.Total,            // Total number of users
			"total_pages": res.TotalPages,       // Total pages
		})
	}
}

// SetUserStatusHandler approves, deactivates or reactivates an account
func SetUserStatusHandler(st *store.Store, p *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		ctx := c.Request.Context()
		userID := c.Param("id")
		user, err := st.SetUserStatus(ctx, userID, domain.UserStatus(req.Status))
		if err != nil {
			respondError(c, err, "Failed to update user status", logrus.Fields{"user_id": userID})
			return
		}
		p.StatusChanged(ctx, user) // Push the new state to the user's sessions
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,     // User ID
			"status":  user.Status, // New status
		}).Info("User status changed")

		message := "Usuário aprovado com sucesso!"
		if user.Status == domain.UserInactive {
			message = "Usuário desativado com sucesso!"
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "user": viewUser(*user)})
	}
}

// ListBetsHandler returns all bets newest first, optionally filtered by status or user
func ListBetsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.ParsePage(c.Query("page"), c.Query("page_size")) // Parse pagination
		status := domain.BetStatus(c.Query("status"))                  // Optional status filter
		if status != "" && !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		res, err := st.ListBets(c.Request.Context(), status, c.Query("user_id"), page)
		if err != nil {
			respondError(c, err, "Failed to fetch bets", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"bets":        viewBets(res.Items), // List of bets
			"page":        res.Page,            // Current page
			"page_size":   res.PageSize,        // Page size
			"total":       res.Total,           // Total number of bets
			"total_pages": res.TotalPages,      // Total pages
		})
	}
}

// ResolveBetHandler settles a pending bet as won or lost
func ResolveBetHandler(l *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResolveRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidOutcome.Error()})
			return
		}
		betID := c.Param("id")
		r, err := l.ResolveBet(c.Request.Context(), betID, domain.BetStatus(req.Outcome))
		if err != nil {
			respondError(c, err, "Failed to resolve bet", logrus.Fields{"bet_id": betID})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"bet":      viewBet(r.Bet), // Resolved bet
			"credited": r.Credited,     // COINS paid to the bettor
			"balance":  r.Balance,      // Bettor balance
		})
	}
}
