// Package session delivers identity-state changes to subscribers.
//
// Every change to a user's session (sign-in, sign-out, an administrator changing
// the account status) is published as an Event keyed by user id. Subscribers get
// a channel of events and must Close the subscription when done; cancelling the
// context passed to Subscribe closes it too.
package session

import (
	"context"
	"sync"

	"tipster/internal/domain"
)

// Event is the identity state of one user after a change. SignedIn false means
// the session identified by TokenID is absent; other sessions of the user are
// unaffected.
type Event struct {
	UserID   string            `json:"user_id"`
	Email    string            `json:"email,omitempty"`
	Status   domain.UserStatus `json:"status,omitempty"`
	SignedIn bool              `json:"signed_in"`
	TokenID  string            `json:"token_id,omitempty"` // jti of the session that signed in or out
}

// Broker fans events out to subscribers of the same user id
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, userID string) (*Subscription, error)
}

// Subscription is a live feed of events for one user
type Subscription struct {
	C <-chan Event

	once   sync.Once
	cancel func()
}

// Close unsubscribes. It is safe to call more than once; C is closed afterwards.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}
