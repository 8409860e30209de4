package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction types
const (
	TxBonus  = "bonus"  // Starting balance granted at registration
	TxStake  = "stake"  // Debit when a bet is placed
	TxPayout = "payout" // Credit when a bet is won
)

// Transaction Model, one row per balance movement
type Transaction struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`          // Primary key
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"` // Owner of the balance
	BetID     *string   `gorm:"size:36;index" json:"bet_id,omitempty"` // Related bet, nil for bonus
	Amount    float64   `json:"amount"`                                // Signed amount: negative for debits
	Type      string    `gorm:"size:16" json:"type"`                   // bonus, stake, payout
	CreatedAt time.Time `json:"created_at"`                            // Timestamp of creation
}

// BeforeCreate assigns an identifier when none is set
func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
