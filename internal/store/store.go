// Package store holds the read paths and simple writes over users, tips and bets.
package store

import (
	"context"
	"errors"

	"tipster/internal/utils"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// Store wraps the database handle
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the handle for callers that need a transaction
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Result is one page of records
type Result[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// paginate counts query and loads one page of it in the given order
func paginate[T any](query *gorm.DB, order string, page utils.Page) (Result[T], error) {
	query = query.Session(&gorm.Session{}) // Count and Find each get their own statement
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Result[T]{}, err
	}
	items := make([]T, 0)
	if err := query.Order(order).Offset(page.Offset()).Limit(page.Size).Find(&items).Error; err != nil {
		return Result[T]{}, err
	}
	return Result[T]{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		Total:      total,
		TotalPages: page.TotalPages(total),
	}, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
