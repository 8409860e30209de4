package store

import (
	"context"

	"tipster/internal/domain"
	"tipster/internal/utils"
)

// BetByID loads a bet
func (s *Store) BetByID(ctx context.Context, id string) (*domain.Bet, error) {
	var b domain.Bet
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// UserBets returns every bet of a user, newest first
func (s *Store) UserBets(ctx context.Context, userID string) ([]domain.Bet, error) {
	bets := make([]domain.Bet, 0)
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&bets).Error
	return bets, err
}

// ListBets returns all bets newest first, optionally filtered by status or user
func (s *Store) ListBets(ctx context.Context, status domain.BetStatus, userID string, page utils.Page) (Result[domain.Bet], error) {
	q := s.db.WithContext(ctx).Model(&domain.Bet{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	return paginate[domain.Bet](q, "created_at desc", page)
}
