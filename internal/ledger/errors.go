package ledger

import "errors"

var (
	ErrInvalidStake        = errors.New("stake must be a positive number")
	ErrInsufficientBalance = errors.New("insufficient balance for this bet")
	ErrTipUnavailable      = errors.New("tip is not open for betting")
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountInactive     = errors.New("account is not active")
	ErrBetNotFound         = errors.New("bet not found")
	ErrInvalidOutcome      = errors.New("outcome must be won or lost")
	ErrAlreadyResolved     = errors.New("bet already resolved")
)

// reason maps a rejection to its metrics label
func reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidStake):
		return "invalid_stake"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrTipUnavailable):
		return "tip_unavailable"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, ErrBetNotFound):
		return "bet_not_found"
	case errors.Is(err, ErrInvalidOutcome):
		return "invalid_outcome"
	case errors.Is(err, ErrAlreadyResolved):
		return "already_resolved"
	default:
		return "internal"
	}
}
