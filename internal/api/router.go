package api

import (
	"tipster/internal/auth"       // Identity provider
	"tipster/internal/ledger"     // Settlement core
	"tipster/internal/metrics"    // Request metrics
	"tipster/internal/middleware" // Custom package for middleware
	"tipster/internal/store"      // Data access
	"tipster/internal/utils"      // Redis cache

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the services the HTTP layer is built on
type Deps struct {
	Store  *store.Store
	Ledger *ledger.Service
	Auth   *auth.Provider
	Cache  *utils.Cache
}

// NewRouter registers every route on a fresh gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default() // Gin router instance
	r.Use(metrics.Middleware())

	// Auth routes
	r.POST("/auth/register", RegisterHandler(d.Auth)) // Registration endpoint
	r.POST("/auth/login", LoginHandler(d.Auth))       // Login endpoint

	// Session routes (signed in, any status)
	signed := r.Group("")
	signed.Use(middleware.JWTAuthMiddleware(d.Auth))
	signed.POST("/auth/logout", LogoutHandler(d.Auth))                   // Logout endpoint
	signed.GET("/session", SessionHandler(d.Store))                      // Current access decision
	signed.GET("/session/events", SessionEventsHandler(d.Auth, d.Store)) // Live session stream

	// Dashboard routes (active accounts only)
	active := signed.Group("")
	active.Use(middleware.ActiveAccountMiddleware(d.Store))
	active.GET("/me", MeHandler())                                 // Account and balance
	active.GET("/me/transactions", MyTransactionsHandler(d.Store)) // Balance movements
	active.GET("/tips", ListActiveTipsHandler(d.Store, d.Cache))   // Active tips
	active.POST("/bets", PlaceBetHandler(d.Ledger))                // Place bet endpoint
	active.GET("/bets", ListMyBetsHandler(d.Store))                // Bet history

	// Admin routes (protected, admin only)
	adminGroup := signed.Group("/admin")
	adminGroup.Use(middleware.AdminOnlyMiddleware())
	adminGroup.GET("/users", ListUsersHandler(d.Store))                          // List users endpoint
	adminGroup.PATCH("/users/:id/status", SetUserStatusHandler(d.Store, d.Auth)) // Approve or deactivate
	adminGroup.GET("/tips", ListTipsHandler(d.Store))                            // All tips
	adminGroup.POST("/tips", CreateTipHandler(d.Store, d.Cache))                 // Publish a tip
	adminGroup.PATCH("/tips/:id/status", SetTipStatusHandler(d.Store, d.Cache))  // Open or close a tip
	adminGroup.GET("/bets", ListBetsHandler(d.Store))                            // All bets
	adminGroup.POST("/bets/:id/resolve", ResolveBetHandler(d.Ledger))            // Settle a bet

	return r
}
