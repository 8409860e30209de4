// Package events publishes ledger events to Kafka.
package events

import "time"

// BetPlaced is emitted after a stake is debited and the pending bet stored
type BetPlaced struct {
	BetID        string  `json:"bet_id"`
	UserID       string  `json:"user_id"`
	TipID        string  `json:"tip_id"`
	BetAmount    float64 `json:"bet_amount"`
	Odds         float64 `json:"odds"`
	PotentialWin float64 `json:"potential_win"`
	Balance      float64 `json:"balance"` // Bettor balance after the debit
	TsUnixMs     int64   `json:"ts_unix_ms"`
}

// BetSettled is emitted after a bet reaches won or lost
type BetSettled struct {
	BetID    string  `json:"bet_id"`
	UserID   string  `json:"user_id"`
	Outcome  string  `json:"outcome"`
	Credited float64 `json:"credited"` // Amount credited to the bettor, 0 when nothing was paid
	TsUnixMs int64   `json:"ts_unix_ms"`
}

func nowMs() int64 { return time.Now().UnixMilli() }
