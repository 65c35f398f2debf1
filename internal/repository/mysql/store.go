package mysql

import (
	"context"

	"pos-service/internal/repository"

	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Orders() repository.OrderRepository { return &orderRepo{db: s.db} }

func (s *store) Products() repository.ProductRepository { return &productRepo{db: s.db} }

func (s *store) Movements() repository.StockMovementRepository { return &movementRepo{db: s.db} }

// Transaction opens a gorm transaction and hands fn a store bound to it.
// Row locks taken through the bound store are held until commit/rollback.
func (s *store) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
