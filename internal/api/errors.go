package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"tipster/internal/auth"   // Identity errors
	"tipster/internal/domain" // Domain errors
	"tipster/internal/ledger" // Settlement errors
	"tipster/internal/store"  // Store errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusFor maps a known error to its HTTP status, 0 when unknown
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidStake),
		errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrInvalidOutcome),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrInvalidPassword),
		errors.Is(err, auth.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrAccountInactive):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrUserNotFound),
		errors.Is(err, ledger.ErrBetNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrTipUnavailable),
		errors.Is(err, ledger.ErrAlreadyResolved),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict
	default:
		return 0
	}
}

// respondError writes err as JSON. Unknown errors are logged with fields and
// hidden behind message.
func respondError(c *gin.Context, err error, message string, fields logrus.Fields) {
	if status := statusFor(err); status != 0 {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["error"] = err.Error()
	fields["path"] = c.FullPath()
	logrus.WithFields(fields).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
