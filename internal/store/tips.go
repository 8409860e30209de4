package store

import (
	"context"

	"tipster/internal/domain"
	"tipster/internal/utils"
)

// CreateTip stores a new tip
func (s *Store) CreateTip(ctx context.Context, tip *domain.Tip) error {
	return s.db.WithContext(ctx).Create(tip).Error
}

// TipByID loads a tip
func (s *Store) TipByID(ctx context.Context, id string) (*domain.Tip, error) {
	var t domain.Tip
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// ActiveTips returns every tip open for betting, next matches first
func (s *Store) ActiveTips(ctx context.Context) ([]domain.Tip, error) {
	tips := make([]domain.Tip, 0)
	err := s.db.WithContext(ctx).
		Where("status = ?", domain.TipActive).
		Order("date desc").Order("created_at desc").
		Find(&tips).Error
	return tips, err
}

// ListTips returns all tips by date then creation time, newest first
func (s *Store) ListTips(ctx context.Context, page utils.Page) (Result[domain.Tip], error) {
	q := s.db.WithContext(ctx).Model(&domain.Tip{})
	return paginate[domain.Tip](q, "date desc, created_at desc", page)
}

// SetTipStatus opens or closes a tip for betting
func (s *Store) SetTipStatus(ctx context.Context, id string, status domain.TipStatus) (*domain.Tip, error) {
	res := s.db.WithContext(ctx).Model(&domain.Tip{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	return s.TipByID(ctx, id)
}
