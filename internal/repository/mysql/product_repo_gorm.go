package mysql

import (
	"context"
	"errors"

	"pos-service/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		return nil, err
	}
	return &p, nil
}

// FindForUpdate issues SELECT ... FOR UPDATE so that concurrent orders
// against the same product serialize on its row for the duration of the
// enclosing transaction.
func (r *productRepo) FindForUpdate(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) UpdateStock(ctx context.Context, id uint64, stock int64) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

func (r *productRepo) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND stock <= min_stock", true).
		Order("stock ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
