package store

import (
	"context"
	"fmt"

	"tipster/internal/domain"
	"tipster/internal/utils"
)

// UserByID loads a user
func (s *Store) UserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UserByEmail loads a user by lower-cased email
func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ListUsers returns users newest first, optionally filtered by status
func (s *Store) ListUsers(ctx context.Context, status domain.UserStatus, page utils.Page) (Result[domain.User], error) {
	q := s.db.WithContext(ctx).Model(&domain.User{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return paginate[domain.User](q, "created_at desc", page)
}

// SetUserStatus moves a user to status if the transition table allows it from
// the current status. The check and write happen in one conditional update.
func (s *Store) SetUserStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, status)
	}
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND status IN ?", id, domain.SourcesFor(status)).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	u, err := s.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return u, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, u.Status, status)
	}
	return u, nil
}

// ListTransactions returns a user's balance movements newest first
func (s *Store) ListTransactions(ctx context.Context, userID string, page utils.Page) (Result[domain.Transaction], error) {
	q := s.db.WithContext(ctx).Model(&domain.Transaction{}).Where("user_id = ?", userID)
	return paginate[domain.Transaction](q, "created_at desc", page)
}
