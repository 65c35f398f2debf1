package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"pos-service/internal/domain"
	rabbit "pos-service/internal/infra/rabbitmq"
	"pos-service/internal/metrics"
	"pos-service/internal/repository"

	"github.com/google/uuid"
)

type OrderService struct {
	store     repository.Store
	pricer    *Pricer
	publisher rabbit.PublisherInterface
	metrics   *metrics.ServiceMetrics
}

func NewOrderService(store repository.Store, pricer *Pricer, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		store:     store,
		pricer:    pricer,
		publisher: pub,
	}
}

func (u *OrderService) SetMetrics(m *metrics.ServiceMetrics) {
	u.metrics = m
}

type OrderItemInput struct {
	ProductID uint64
	Quantity  int64
}

type CreateOrderInput struct {
	Items         []OrderItemInput
	PaymentMethod domain.PaymentMethod
	Discount      float64
	CustomerName  string
	CustomerPhone string
	Notes         string
}

// CreateOrder runs the whole check-and-deduct sequence in one database
// transaction: every product row is locked FOR UPDATE and validated
// before any stock is touched, then the order, the stock balances and
// the SALE ledger entries are written together. A failure anywhere rolls
// the whole unit back.
func (u *OrderService) CreateOrder(ctx context.Context, actorID uint64, in CreateOrderInput) (*domain.OrderSummary, error) {
	if !in.PaymentMethod.Valid() {
		return nil, &domain.ValidationError{Field: "paymentMethod", Message: fmt.Sprintf("unknown payment method %q", in.PaymentMethod)}
	}
	if len(in.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Message: "order must contain at least one item"}
	}

	// Aggregate requested quantities per product: duplicate lines for the
	// same product must be checked against their combined demand, and each
	// row is locked exactly once. Lock acquisition follows ascending
	// product id so concurrent orders never hold locks in opposite order.
	need := make(map[uint64]int64, len(in.Items))
	productIDs := make([]uint64, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "quantity", Message: fmt.Sprintf("item %d: quantity must be positive", i)}
		}
		if _, seen := need[it.ProductID]; !seen {
			productIDs = append(productIDs, it.ProductID)
		}
		need[it.ProductID] += it.Quantity
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	var summary *domain.OrderSummary
	err := u.store.Transaction(ctx, func(s repository.Store) error {
		// Lock and validate every product before mutating anything.
		products := make(map[uint64]*domain.Product, len(productIDs))
		for _, id := range productIDs {
			p, err := s.Products().FindForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if !p.IsActive {
				return &domain.ValidationError{Field: "productId", Message: fmt.Sprintf("product %s is not available for sale", p.Name)}
			}
			products[id] = p
		}
		for _, id := range productIDs {
			if products[id].Stock < need[id] {
				return &domain.InsufficientStockError{
					ProductName: products[id].Name,
					Requested:   need[id],
					Available:   products[id].Stock,
				}
			}
		}

		priced := make([]PricedItem, len(in.Items))
		for i, it := range in.Items {
			priced[i] = PricedItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: products[it.ProductID].Price}
		}
		totals, err := u.pricer.Compute(priced, in.Discount)
		if err != nil {
			return err
		}

		order := &domain.Order{
			OrderNumber:   generateOrderNumber(),
			Status:        domain.StatusPending,
			PaymentMethod: in.PaymentMethod,
			Subtotal:      totals.Subtotal,
			Discount:      totals.Discount,
			Tax:           totals.Tax,
			Total:         totals.Total,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			Notes:         in.Notes,
			CreatedBy:     actorID,
			Items:         make([]domain.OrderItem, len(in.Items)),
		}
		for i, it := range in.Items {
			order.Items[i] = domain.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     products[it.ProductID].Price,
				Subtotal:  totals.ItemSubtotals[i],
			}
		}

		if err := s.Orders().Create(ctx, order); err != nil {
			return err
		}

		// Append one SALE entry per line, chaining previous/new through a
		// running balance so lines for the same product replay correctly,
		// then persist the final balance per product. Stock is reserved
		// the moment the order exists, before any payment confirmation.
		balance := make(map[uint64]int64, len(productIDs))
		for _, id := range productIDs {
			balance[id] = products[id].Stock
		}
		for _, it := range in.Items {
			prev := balance[it.ProductID]
			next := prev - it.Quantity
			balance[it.ProductID] = next
			movement := &domain.StockMovement{
				ProductID:     it.ProductID,
				Type:          domain.MovementSale,
				Quantity:      it.Quantity,
				PreviousStock: prev,
				NewStock:      next,
				Reason:        "order " + order.OrderNumber,
				Reference:     order.OrderNumber,
				CreatedBy:     actorID,
			}
			if err := s.Movements().Create(ctx, movement); err != nil {
				return err
			}
		}
		for _, id := range productIDs {
			if err := s.Products().UpdateStock(ctx, id, balance[id]); err != nil {
				return err
			}
		}

		summary = &domain.OrderSummary{
			Order:     order,
			ItemCount: len(order.Items),
			Subtotal:  totals.Subtotal,
			Discount:  totals.Discount,
			Tax:       totals.Tax,
			Total:     totals.Total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.OrdersCreated.Inc()
		u.metrics.StockMovements.WithLabelValues(string(domain.MovementSale)).Add(float64(len(in.Items)))
	}

	go u.publishEvent(context.Background(), "order.created", domain.OrderCreatedEvent{
		OrderID:     summary.Order.ID,
		OrderNumber: summary.Order.OrderNumber,
		ItemCount:   summary.ItemCount,
		Total:       summary.Total,
		CreatedAt:   summary.Order.CreatedAt,
	})

	return summary, nil
}

func (u *OrderService) GetOrderById(ctx context.Context, id uint64) (*domain.Order, error) {
	return u.store.Orders().FindByID(ctx, id)
}

func (u *OrderService) ListOrders(ctx context.Context, f repository.OrderFilter) ([]domain.Order, int64, error) {
	return u.store.Orders().List(ctx, f)
}

// UpdateOrderStatus applies one transition from the state machine table.
// The order row is read under a lock so two concurrent transitions of the
// same order serialize on it instead of both passing the status check.
// A transition into CANCELLED goes through CancelOrder so the stock
// compensation always runs.
func (u *OrderService) UpdateOrderStatus(ctx context.Context, id uint64, newStatus domain.OrderStatus, actorID uint64) (*domain.Order, error) {
	if !newStatus.Valid() {
		return nil, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", newStatus)}
	}
	if newStatus == domain.StatusCancelled {
		return u.CancelOrder(ctx, id, "", actorID)
	}

	var updated *domain.Order
	err := u.store.Transaction(ctx, func(s repository.Store) error {
		order, err := s.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(newStatus) {
			return &domain.InvalidOrderStatusError{Current: order.Status, Target: newStatus}
		}
		if err := s.Orders().UpdateStatus(ctx, id, newStatus); err != nil {
			return err
		}
		order.Status = newStatus
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelOrder restores each item's stock and appends a RETURN ledger
// entry per item, then marks the order CANCELLED, all in one transaction.
// The order row is locked for the status check so a concurrent cancel
// blocks until this one commits and then fails the transition check,
// rather than restoring stock twice. Cancellation is allowed from any
// non-terminal status.
func (u *OrderService) CancelOrder(ctx context.Context, id uint64, reason string, actorID uint64) (*domain.Order, error) {
	var cancelled *domain.Order
	err := u.store.Transaction(ctx, func(s repository.Store) error {
		order, err := s.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(domain.StatusCancelled) {
			return &domain.InvalidOrderStatusError{Current: order.Status, Target: domain.StatusCancelled}
		}

		for _, item := range order.Items {
			p, err := s.Products().FindForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			newStock := p.Stock + item.Quantity
			if err := s.Products().UpdateStock(ctx, item.ProductID, newStock); err != nil {
				return err
			}
			movementReason := "cancellation of order " + order.OrderNumber
			if reason != "" {
				movementReason = movementReason + ": " + reason
			}
			movement := &domain.StockMovement{
				ProductID:     item.ProductID,
				Type:          domain.MovementReturn,
				Quantity:      item.Quantity,
				PreviousStock: p.Stock,
				NewStock:      newStock,
				Reason:        movementReason,
				Reference:     order.OrderNumber,
				CreatedBy:     actorID,
			}
			if err := s.Movements().Create(ctx, movement); err != nil {
				return err
			}
		}

		if err := s.Orders().UpdateStatus(ctx, id, domain.StatusCancelled); err != nil {
			return err
		}
		order.Status = domain.StatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.OrdersCancelled.Inc()
		u.metrics.StockMovements.WithLabelValues(string(domain.MovementReturn)).Add(float64(len(cancelled.Items)))
	}

	go u.publishEvent(context.Background(), "order.cancelled", domain.OrderCancelledEvent{
		OrderID:     cancelled.ID,
		OrderNumber: cancelled.OrderNumber,
		Reason:      reason,
		CancelledAt: time.Now(),
	})

	return cancelled, nil
}

func (u *OrderService) publishEvent(ctx context.Context, pattern string, evt any) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, pattern, evt); err != nil {
		log.Printf("Failed to publish %s event: %v", pattern, err)
	}
}

// generateOrderNumber builds a human-readable, collision-resistant order
// number. Uniqueness is ultimately guaranteed by the database constraint,
// which turns the rare collision into a ConflictError instead of a
// duplicate deduction.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102-150405"), suffix)
}
