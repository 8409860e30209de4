package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BetStatus is the settlement state of a bet
type BetStatus string

const (
	BetPending BetStatus = "pending"
	BetWon     BetStatus = "won"
	BetLost    BetStatus = "lost"
)

// Valid reports whether s is a known bet status
func (s BetStatus) Valid() bool {
	return s == BetPending || s.Terminal()
}

// Terminal reports whether the status can no longer change
func (s BetStatus) Terminal() bool {
	return s == BetWon || s == BetLost
}

// Text returns the label shown next to the status
func (s BetStatus) Text() string {
	switch s {
	case BetWon:
		return "Ganha"
	case BetLost:
		return "Perdida"
	case BetPending:
		return "Pendente"
	default:
		return "Desconhecido"
	}
}

// Bet is a wager against a tip. UserName, TipTitle and Odds are snapshots
// taken at placement and never re-derived.
type Bet struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`          // Opaque identifier
	UserID       string     `gorm:"size:36;index;not null" json:"user_id"` // Bettor
	UserName     string     `json:"user_name"`                             // Bettor name at placement
	TipID        string     `gorm:"size:36;index;not null" json:"tip_id"`  // Tip bet on
	TipTitle     string     `json:"tip_title"`                             // Match label at placement
	BetAmount    float64    `gorm:"not null" json:"bet_amount"`            // Stake in COINS
	PotentialWin float64    `gorm:"not null" json:"potential_win"`         // Stake times odds
	Odds         float64    `gorm:"not null" json:"odds"`                  // Tip odds at placement
	Status       BetStatus  `gorm:"size:16;index;not null" json:"status"`  // pending, won, lost
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`               // Placement time
	ResultDate   *time.Time `json:"result_date,omitempty"`                 // Set when resolved
}

// Profit is the net result of the bet for its owner
func (b *Bet) Profit() float64 {
	switch b.Status {
	case BetWon:
		return b.PotentialWin - b.BetAmount
	case BetLost:
		return -b.BetAmount
	default:
		return 0
	}
}

// BeforeCreate assigns an identifier when none is set
func (b *Bet) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
