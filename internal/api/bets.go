package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Stake parsing
	"strings"  // String manipulation

	"tipster/internal/domain"     // Importing domain models
	"tipster/internal/ledger"     // Settlement core
	"tipster/internal/middleware" // Principal lookup
	"tipster/internal/store"      // Data access
	"tipster/internal/utils"      // Pagination

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// PlaceBetRequest is the betting form. Amount may be a JSON number or a numeric string.
type PlaceBetRequest struct {
	TipID  string `json:"tip_id" binding:"required"` // Tip to bet on
	Amount any    `json:"amount"`                    // Stake in COINS
}

// parseStake turns the submitted amount into a number
func parseStake(v any) (float64, bool) {
	switch a := v.(type) {
	case float64:
		return a, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// PlaceBetHandler debits the stake and records a pending bet
func PlaceBetHandler(l *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c) // Get principal from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req PlaceBetRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		stake, ok := parseStake(req.Amount)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidStake.Error()})
			return
		}
		p, err := l.PlaceBet(c.Request.Context(), principal.UserID, req.TipID, stake)
		if err != nil {
			respondError(c, err, "Failed to place bet", logrus.Fields{"user_id": principal.UserID, "tip_id": req.TipID})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Aposta realizada com sucesso! Boa sorte!",
			"bet":     viewBet(p.Bet),
			"balance": p.Balance,
		})
	}
}

// ListMyBetsHandler returns the caller's bets newest first with a summary
func ListMyBetsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		bets, err := st.UserBets(c.Request.Context(), principal.UserID)
		if err != nil {
			respondError(c, err, "Failed to fetch bets", logrus.Fields{"user_id": principal.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"bets": viewBets(bets), "summary": ledger.Summarize(bets)})
	}
}

// MeHandler returns the caller's account and balance
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(middleware.UserKey)
		user, ok := v.(*domain.User)
		if !exists || !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": viewUser(*user)})
	}
}

// MyTransactionsHandler returns the caller's balance movements
func MyTransactionsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page := utils.ParsePage(c.Query("page"), c.Query("page_size")) // Parse pagination
		res, err := st.ListTransactions(c.Request.Context(), principal.UserID, page)
		if err != nil {
			respondError(c, err, "Failed to fetch transactions", logrus.Fields{"user_id": principal.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"transactions": res.Items,      // List of transactions
			"page":         res.Page,       // Current page
			"page_size":    res.PageSize,   // Page size
			"total":        res.Total,      // Total transactions
			"total_pages":  res.TotalPages, // Total pages
		})
	}
}
