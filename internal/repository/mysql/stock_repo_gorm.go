package mysql

import (
	"context"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/repository"

	"gorm.io/gorm"
)

type movementRepo struct {
	db *gorm.DB
}

// Create appends a ledger entry. The entry is validated first; the ledger
// never accepts a row that would break the replay invariant.
func (r *movementRepo) Create(ctx context.Context, m *domain.StockMovement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) List(ctx context.Context, f repository.MovementFilter) ([]domain.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.StockMovement{})
	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Reference != "" {
		q = q.Where("reference = ?", f.Reference)
	}
	if f.TodayOnly {
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		q = q.Where("created_at >= ?", start)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var out []domain.StockMovement
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *movementRepo) StatsByType(ctx context.Context, productID uint64) ([]domain.MovementStats, error) {
	q := r.db.WithContext(ctx).Model(&domain.StockMovement{}).
		Select("type, COUNT(*) AS count, SUM(quantity) AS total")
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}
	var out []domain.MovementStats
	if err := q.Group("type").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
