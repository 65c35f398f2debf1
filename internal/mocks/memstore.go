package mocks

import (
	"context"
	"sync"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/repository"
)

// MemStore is an in-memory repository.Store with transactional rollback,
// used to exercise the whole create/cancel/adjust flow without a
// database. Transaction snapshots the state and restores it when fn
// fails, matching the all-or-nothing behavior of the real store.
type MemStore struct {
	mu        sync.Mutex
	products  map[uint64]domain.Product
	orders    map[uint64]domain.Order
	movements []domain.StockMovement

	nextOrderID    uint64
	nextItemID     uint64
	nextMovementID uint64

	// Injectable failures for atomicity tests.
	FailOrderCreate   error
	FailUpdateStock   error
	FailMovementWrite error

	// Lock observations, so tests can assert which rows a flow locked
	// and in what order.
	OrderLockReads   int
	ProductLockOrder []uint64
}

func NewMemStore() *MemStore {
	return &MemStore{
		products: make(map[uint64]domain.Product),
		orders:   make(map[uint64]domain.Order),
	}
}

func (s *MemStore) SeedProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *MemStore) Product(id uint64) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

func (s *MemStore) AllMovements() []domain.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.StockMovement, len(s.movements))
	copy(out, s.movements)
	return out
}

type snapshot struct {
	products  map[uint64]domain.Product
	orders    map[uint64]domain.Order
	movements []domain.StockMovement
}

func (s *MemStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products:  make(map[uint64]domain.Product, len(s.products)),
		orders:    make(map[uint64]domain.Order, len(s.orders)),
		movements: make([]domain.StockMovement, len(s.movements)),
	}
	for id, p := range s.products {
		snap.products[id] = p
	}
	for id, o := range s.orders {
		items := make([]domain.OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
		snap.orders[id] = o
	}
	copy(snap.movements, s.movements)
	return snap
}

func (s *MemStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.orders = snap.orders
	s.movements = snap.movements
}

func (s *MemStore) Orders() repository.OrderRepository            { return memOrders{s} }
func (s *MemStore) Products() repository.ProductRepository        { return memProducts{s} }
func (s *MemStore) Movements() repository.StockMovementRepository { return memMovements{s} }

func (s *MemStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memOrders struct{ s *MemStore }

func (r memOrders) Create(ctx context.Context, order *domain.Order) error {
	if r.s.FailOrderCreate != nil {
		return r.s.FailOrderCreate
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.OrderNumber == order.OrderNumber {
			return &domain.ConflictError{Message: "order number " + order.OrderNumber + " already exists"}
		}
	}
	r.s.nextOrderID++
	order.ID = r.s.nextOrderID
	order.CreatedAt = time.Now()
	for i := range order.Items {
		r.s.nextItemID++
		order.Items[i].ID = r.s.nextItemID
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = make([]domain.OrderItem, len(order.Items))
	copy(stored.Items, order.Items)
	r.s.orders[order.ID] = stored
	return nil
}

func (r memOrders) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "order", ID: id}
	}
	out := o
	out.Items = make([]domain.OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	return &out, nil
}

func (r memOrders) FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Order, error) {
	r.s.mu.Lock()
	r.s.OrderLockReads++
	r.s.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r memOrders) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Order
	for _, o := range r.s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.CreatedBy != 0 && o.CreatedBy != f.CreatedBy {
			continue
		}
		out = append(out, o)
	}
	total := int64(len(out))
	out = page(out, f.Offset, f.Limit)
	return out, total, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return &domain.NotFoundError{Entity: "order", ID: id}
	}
	o.Status = status
	r.s.orders[id] = o
	return nil
}

type memProducts struct{ s *MemStore }

func (r memProducts) find(id uint64) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	out := p
	return &out, nil
}

func (r memProducts) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	return r.find(id)
}

func (r memProducts) FindForUpdate(ctx context.Context, id uint64) (*domain.Product, error) {
	r.s.mu.Lock()
	r.s.ProductLockOrder = append(r.s.ProductLockOrder, id)
	r.s.mu.Unlock()
	return r.find(id)
}

func (r memProducts) UpdateStock(ctx context.Context, id uint64, stock int64) error {
	if r.s.FailUpdateStock != nil {
		return r.s.FailUpdateStock
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return &domain.NotFoundError{Entity: "product", ID: id}
	}
	p.Stock = stock
	r.s.products[id] = p
	return nil
}

func (r memProducts) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Product
	for _, p := range r.s.products {
		if p.IsActive && p.Stock <= p.MinStock {
			out = append(out, p)
		}
	}
	return out, nil
}

type memMovements struct{ s *MemStore }

func (r memMovements) Create(ctx context.Context, m *domain.StockMovement) error {
	if r.s.FailMovementWrite != nil {
		return r.s.FailMovementWrite
	}
	if err := m.Validate(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextMovementID++
	m.ID = r.s.nextMovementID
	m.CreatedAt = time.Now()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r memMovements) List(ctx context.Context, f repository.MovementFilter) ([]domain.StockMovement, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.StockMovement
	for _, m := range r.s.movements {
		if f.ProductID != 0 && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.Reference != "" && m.Reference != f.Reference {
			continue
		}
		out = append(out, m)
	}
	total := int64(len(out))
	out = page(out, f.Offset, f.Limit)
	return out, total, nil
}

// page applies OFFSET/LIMIT semantics: an offset at or past the end of
// the result yields an empty page, as the database would return.
func page[T any](in []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func (r memMovements) StatsByType(ctx context.Context, productID uint64) ([]domain.MovementStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byType := make(map[domain.MovementType]*domain.MovementStats)
	for _, m := range r.s.movements {
		if productID != 0 && m.ProductID != productID {
			continue
		}
		st, ok := byType[m.Type]
		if !ok {
			st = &domain.MovementStats{Type: m.Type}
			byType[m.Type] = st
		}
		st.Count++
		st.Total += m.Quantity
	}
	var out []domain.MovementStats
	for _, st := range byType {
		out = append(out, *st)
	}
	return out, nil
}

var _ repository.Store = (*MemStore)(nil)
