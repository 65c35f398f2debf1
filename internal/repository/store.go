package repository

import (
	"context"

	"pos-service/internal/domain"
)

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	Status    domain.OrderStatus
	CreatedBy uint64
	Limit     int
	Offset    int
}

// MovementFilter narrows stock ledger queries.
type MovementFilter struct {
	ProductID uint64
	Type      domain.MovementType
	Reference string
	TodayOnly bool
	Limit     int
	Offset    int
}

type OrderRepository interface {
	// Create persists the order together with its items.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	// FindByIDForUpdate reads the order under a row lock. Only meaningful
	// inside a transaction; status transitions use it so the check and
	// the update happen against the same serialized row.
	FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	// FindForUpdate reads the product under a row lock. Only meaningful
	// inside a transaction; callers use it for the check-and-deduct step.
	FindForUpdate(ctx context.Context, id uint64) (*domain.Product, error)
	// UpdateStock sets the on-hand balance to an absolute value.
	UpdateStock(ctx context.Context, id uint64, stock int64) error
	ListLowStock(ctx context.Context) ([]domain.Product, error)
}

type StockMovementRepository interface {
	Create(ctx context.Context, m *domain.StockMovement) error
	List(ctx context.Context, f MovementFilter) ([]domain.StockMovement, int64, error)
	StatsByType(ctx context.Context, productID uint64) ([]domain.MovementStats, error)
}

// Store bundles the repositories and the transaction boundary. Transaction
// runs fn against a store bound to one database transaction; returning an
// error rolls everything back.
type Store interface {
	Orders() OrderRepository
	Products() ProductRepository
	Movements() StockMovementRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}
