package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipStatus controls whether a tip accepts bets
type TipStatus string

const (
	TipActive   TipStatus = "active"
	TipInactive TipStatus = "inactive"
)

// Valid reports whether s is a known tip status
func (s TipStatus) Valid() bool {
	return s == TipActive || s == TipInactive
}

// Tip is an admin-authored betting opportunity with fixed odds
type Tip struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`         // Opaque identifier
	TeamA       string    `gorm:"not null" json:"team_a"`               // Home side
	TeamB       string    `gorm:"not null" json:"team_b"`               // Away side
	BetType     string    `json:"bet_type"`                             // Bet type label
	BetValue    float64   `json:"bet_value"`                            // Display-only reference stake
	ReturnValue float64   `json:"return_value"`                         // Display-only reference return
	Odds        float64   `gorm:"not null" json:"odds"`                 // Decimal odds applied to new bets
	League      string    `json:"league"`                               // League name
	Market      string    `json:"market"`                               // Market descriptor
	OS          string    `gorm:"column:os" json:"os"`                  // Market descriptor
	HT          string    `gorm:"column:ht" json:"ht"`                  // Half-time market descriptor
	Note        string    `gorm:"type:text" json:"note"`                // Free text
	Date        time.Time `gorm:"index" json:"date"`                    // Match date
	Status      TipStatus `gorm:"size:16;index;not null" json:"status"` // active, inactive
	CreatedAt   time.Time `json:"created_at"`                           // Publication time
}

// Title is the match label copied onto bets
func (t *Tip) Title() string {
	return t.TeamA + " × " + t.TeamB
}

// BeforeCreate assigns an identifier when none is set
func (t *Tip) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
