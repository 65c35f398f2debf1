package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/infra"
	rabbit "pos-service/internal/infra/rabbitmq"
	"pos-service/internal/metrics"
	"pos-service/internal/repository"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

type InventoryService struct {
	store         repository.Store
	publisher     rabbit.PublisherInterface
	catalogClient infra.CatalogClientInterface
	metrics       *metrics.ServiceMetrics
	redisClient   *redis.Client
}

func NewInventoryService(store repository.Store, pub rabbit.PublisherInterface, catalog infra.CatalogClientInterface) *InventoryService {
	return &InventoryService{
		store:         store,
		publisher:     pub,
		catalogClient: catalog,
	}
}

func (u *InventoryService) SetRedisClient(client *redis.Client) {
	u.redisClient = client
}

func (u *InventoryService) SetMetrics(m *metrics.ServiceMetrics) {
	u.metrics = m
}

// AdjustStock records a manual movement outside the order flow: restocks
// (PURCHASE), write-offs (DAMAGED) and corrections (ADJUSTMENT, RETURN).
// The product balance and the ledger entry are written in one transaction.
func (u *InventoryService) AdjustStock(ctx context.Context, productID uint64, quantity int64, movementType domain.MovementType, reason string, actorID uint64) (*domain.StockMovement, error) {
	if !movementType.Valid() {
		return nil, &domain.ValidationError{Field: "type", Message: fmt.Sprintf("unknown movement type %q", movementType)}
	}
	if movementType == domain.MovementSale {
		return nil, &domain.ValidationError{Field: "type", Message: "SALE movements are created by the order flow only"}
	}
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Message: "quantity must be positive"}
	}

	var movement *domain.StockMovement
	err := u.store.Transaction(ctx, func(s repository.Store) error {
		p, err := s.Products().FindForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		newStock := p.Stock + movementType.Direction()*quantity
		if newStock < 0 {
			return &domain.InsufficientStockError{
				ProductName: p.Name,
				Requested:   quantity,
				Available:   p.Stock,
			}
		}

		movement = &domain.StockMovement{
			ProductID:     productID,
			Type:          movementType,
			Quantity:      quantity,
			PreviousStock: p.Stock,
			NewStock:      newStock,
			Reason:        reason,
			CreatedBy:     actorID,
		}
		if err := s.Movements().Create(ctx, movement); err != nil {
			return err
		}
		return s.Products().UpdateStock(ctx, productID, newStock)
	})
	if err != nil {
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.StockMovements.WithLabelValues(string(movementType)).Inc()
	}

	go u.publishStockAdjusted(context.Background(), movement)

	return movement, nil
}

func (u *InventoryService) GetStockHistory(ctx context.Context, f repository.MovementFilter) ([]domain.StockMovement, int64, error) {
	return u.store.Movements().List(ctx, f)
}

func (u *InventoryService) GetMovementStats(ctx context.Context, productID uint64) ([]domain.MovementStats, error) {
	return u.store.Movements().StatsByType(ctx, productID)
}

// LowStockItem pairs a product at or below its threshold with its
// category name resolved from the catalog service.
type LowStockItem struct {
	Product      domain.Product `json:"product"`
	CategoryName string         `json:"categoryName,omitempty"`
}

func (u *InventoryService) LowStockReport(ctx context.Context) ([]LowStockItem, error) {
	products, err := u.store.Products().ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]LowStockItem, len(products))
	for i, p := range products {
		out[i] = LowStockItem{Product: p}
		if p.CategoryID == 0 {
			continue
		}
		cat, err := u.getCategoryWithCache(ctx, p.CategoryID)
		if err != nil {
			log.Printf("Failed to resolve category %d: %v", p.CategoryID, err)
			continue
		}
		if cat != nil {
			out[i].CategoryName = cat.Name
		}
	}
	return out, nil
}

func (u *InventoryService) getCategoryWithCache(ctx context.Context, categoryID uint64) (*infra.CategoryInfo, error) {
	cacheKey := fmt.Sprintf("category:%d", categoryID)

	if u.redisClient != nil {
		cached, err := u.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var cat infra.CategoryInfo
			if err := json.Unmarshal([]byte(cached), &cat); err == nil {
				return &cat, nil
			}
		}
	}

	cat, err := u.catalogClient.GetCategoryById(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if u.redisClient != nil && cat != nil {
		if data, err := json.Marshal(cat); err == nil {
			u.redisClient.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return cat, nil
}

// WarmupCategoryCache primes the redis category cache at startup so the
// first low-stock report does not fan out to the catalog service.
func (u *InventoryService) WarmupCategoryCache(ctx context.Context, categoryIDs []uint64) error {
	if u.redisClient == nil || u.catalogClient == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range categoryIDs {
		id := id
		g.Go(func() error {
			cat, err := u.catalogClient.GetCategoryById(gctx, id)
			if err != nil {
				log.Printf("Failed to warm up cache for category %d: %v", id, err)
				return nil
			}
			if cat != nil {
				cacheKey := fmt.Sprintf("category:%d", id)
				if data, err := json.Marshal(cat); err == nil {
					u.redisClient.Set(gctx, cacheKey, data, 5*time.Minute)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (u *InventoryService) publishStockAdjusted(ctx context.Context, m *domain.StockMovement) {
	if u.publisher == nil {
		return
	}
	evt := domain.StockAdjustedEvent{
		ProductID:  m.ProductID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		NewStock:   m.NewStock,
		AdjustedAt: time.Now(),
	}
	if err := u.publisher.Publish(ctx, "stock.adjusted", evt); err != nil {
		log.Printf("Failed to publish stock.adjusted event: %v", err)
	}
}
