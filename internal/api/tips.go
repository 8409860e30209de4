package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Dates and cache TTL

	"tipster/internal/domain" // Importing domain models
	"tipster/internal/store"  // Data access
	"tipster/internal/utils"  // Cache and pagination

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

const (
	activeTipsKey = "tips:active"    // Cache key for the betting list
	activeTipsTTL = 60 * time.Second // Cache lifetime
)

// CreateTipRequest is the admin tip form
type CreateTipRequest struct {
	TeamA       string  `json:"team_a" binding:"required"`    // Home side
	TeamB       string  `json:"team_b" binding:"required"`    // Away side
	BetType     string  `json:"bet_type"`                     // Bet type label
	BetValue    float64 `json:"bet_value"`                    // Reference stake
	ReturnValue float64 `json:"return_value"`                 // Reference return
	Odds        float64 `json:"odds" binding:"required,gt=0"` // Decimal odds
	League      string  `json:"league"`                       // League name
	Market      string  `json:"market"`                       // Market descriptor
	OS          string  `json:"os"`                           // Market descriptor
	HT          string  `json:"ht"`                           // Market descriptor
	Note        string  `json:"note"`                         // Free text
	Date        string  `json:"date"`                         // YYYY-MM-DD or RFC3339, today when empty
}

// StatusRequest changes the status of a user or tip
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// parseTipDate accepts a calendar date or a full timestamp
func parseTipDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ListActiveTipsHandler returns the tips open for betting
func ListActiveTipsHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var tips []domain.Tip
		// Try to get cached response
		found, err := cache.Get(ctx, activeTipsKey, &tips)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"tips": tips, "cached": true})
			return
		}
		tips, err = st.ActiveTips(ctx)
		if err != nil {
			respondError(c, err, "Failed to fetch tips", nil)
			return
		}
		_ = cache.Set(ctx, activeTipsKey, tips, activeTipsTTL) // Cache the list for future requests
		c.JSON(http.StatusOK, gin.H{"tips": tips, "cached": false})
	}
}

// ListTipsHandler returns every tip for the admin console
func ListTipsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.ParsePage(c.Query("page"), c.Query("page_size"))
		res, err := st.ListTips(c.Request.Context(), page)
		if err != nil {
			respondError(c, err, "Failed to fetch tips", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tips":        res.Items,      // List of tips
			"page":        res.Page,       // Current page
			"page_size":   res.PageSize,   // Page size
			"total":       res.Total,      // Total number of tips
			"total_pages": res.TotalPages, // Total pages
		})
	}
}

// CreateTipHandler publishes a new active tip
func CreateTipHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTipRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		date, ok := parseTipDate(req.Date, time.Now())
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		tip := domain.Tip{
			TeamA:       strings.TrimSpace(req.TeamA),
			TeamB:       strings.TrimSpace(req.TeamB),
			BetType:     req.BetType,
			BetValue:    req.BetValue,
			ReturnValue: req.ReturnValue,
			Odds:        req.Odds,
			League:      req.League,
			Market:      req.Market,
			OS:          req.OS,
			HT:          req.HT,
			Note:        req.Note,
			Date:        date,
			Status:      domain.TipActive,
		}
		ctx := c.Request.Context()
		if err := st.CreateTip(ctx, &tip); err != nil {
			respondError(c, err, "Failed to create tip", logrus.Fields{"team_a": tip.TeamA, "team_b": tip.TeamB})
			return
		}
		_ = cache.Delete(ctx, activeTipsKey) // Invalidate the betting list
		logrus.WithFields(logrus.Fields{
			"tip_id": tip.ID,      // Tip ID
			"title":  tip.Title(), // Match
			"odds":   tip.Odds,    // Odds
		}).Info("Tip created")
		c.JSON(http.StatusCreated, gin.H{"message": "Dica criada com sucesso!", "tip": tip})
	}
}

// SetTipStatusHandler opens or closes a tip for betting
func SetTipStatusHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || !domain.TipStatus(req.Status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		ctx := c.Request.Context()
		tip, err := st.SetTipStatus(ctx, c.Param("id"), domain.TipStatus(req.Status))
		if err != nil {
			respondError(c, err, "Failed to update tip", logrus.Fields{"tip_id": c.Param("id")})
			return
		}
		_ = cache.Delete(ctx, activeTipsKey) // Invalidate the betting list
		logrus.WithFields(logrus.Fields{"tip_id": tip.ID, "status": tip.Status}).Info("Tip status changed")
		c.JSON(http.StatusOK, gin.H{"tip": tip})
	}
}
