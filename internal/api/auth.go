package api

import (
	"net/http" // HTTP status codes
	"time"     // Expiry formatting

	"tipster/internal/auth"       // Identity provider
	"tipster/internal/middleware" // Principal lookup

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`     // Display name
	Email    string `json:"email" binding:"required"`    // Login email
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest is the sign-in payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Login email
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse is returned after a successful sign-in
type AuthResponse struct {
	Token     string `json:"token"`      // JWT token
	ExpiresAt string `json:"expires_at"` // RFC3339 expiry
	Admin     bool   `json:"admin"`      // Whether the session carries the admin role
}

// RegisterHandler creates a pending account. The caller stays signed out.
func RegisterHandler(p *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := p.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			respondError(c, err, "Failed to register user", logrus.Fields{"email": req.Email})
			return
		}
		// Return success response without a session
		c.JSON(http.StatusCreated, gin.H{
			"message": auth.RegisteredMessage(user.Coins),
			"user":    viewUser(*user),
		})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(p *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		s, err := p.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err, "Failed to sign in", logrus.Fields{"email": req.Email})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{
			Token:     s.Token,
			ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
			Admin:     s.Principal.HasRole(auth.RoleAdmin),
		})
	}
}

// LogoutHandler revokes the current token
func LogoutHandler(p *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err := p.SignOut(c.Request.Context(), principal); err != nil {
			respondError(c, err, "Failed to sign out", logrus.Fields{"user_id": principal.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso!"})
	}
}
