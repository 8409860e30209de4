package domain

import (
	"errors" // Sentinel errors
	"time"   // Timestamps

	"github.com/google/uuid" // Opaque identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// UserStatus is the approval state of an account
type UserStatus string

const (
	UserPending  UserStatus = "pending"  // Registered, waiting for an administrator
	UserActive   UserStatus = "active"   // Allowed to use tips and bets
	UserInactive UserStatus = "inactive" // Deactivated by an administrator
)

// ErrInvalidTransition is returned for a status change outside the allowed table
var ErrInvalidTransition = errors.New("invalid status transition")

// userTransitions lists, per target status, the statuses it may be reached from
var userTransitions = map[UserStatus][]UserStatus{
	UserActive:   {UserPending, UserInactive},
	UserInactive: {UserPending, UserActive},
}

// Valid reports whether s is a known user status
func (s UserStatus) Valid() bool {
	return s == UserPending || s == UserActive || s == UserInactive
}

// Text returns the label shown next to the status
func (s UserStatus) Text() string {
	switch s {
	case UserActive:
		return "Ativo"
	case UserPending:
		return "Pendente"
	case UserInactive:
		return "Inativo"
	default:
		return "Desconhecido"
	}
}

// SourcesFor returns the statuses from which target can be reached
func SourcesFor(target UserStatus) []UserStatus {
	return userTransitions[target]
}

// CanTransition reports whether an administrator may move a user from one status to another
func CanTransition(from, to UserStatus) bool {
	for _, s := range userTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// User Model
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`               // Opaque identifier
	Name         string     `gorm:"not null" json:"name"`                       // Display name
	Email        string     `gorm:"uniqueIndex;size:191;not null" json:"email"` // Lower-cased login email
	PasswordHash string     `gorm:"not null" json:"-"`                          // bcrypt hash
	Status       UserStatus `gorm:"size:16;index;not null" json:"status"`       // pending, active, inactive
	Coins        float64    `gorm:"not null;default:0" json:"coins"`            // COINS balance
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                    // Registration time
}

// BeforeCreate assigns an identifier when none is set
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
