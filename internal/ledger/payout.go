package ledger

import (
	"math"
	"strconv"
)

// PotentialPayout is what a winning stake returns at the given odds. The value
// is kept unrounded; use FormatCoins for display.
func PotentialPayout(stake, odds float64) float64 {
	return stake * odds
}

// FormatCoins renders an amount with two decimals
func FormatCoins(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ValidStake reports whether stake is a finite positive number
func ValidStake(stake float64) bool {
	return !math.IsNaN(stake) && !math.IsInf(stake, 0) && stake > 0
}
