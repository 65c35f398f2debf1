package domain

import "time"

type OrderCreatedEvent struct {
	OrderID     uint64    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	ItemCount   int       `json:"itemCount"`
	Total       float64   `json:"total"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderCancelledEvent struct {
	OrderID     uint64    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Reason      string    `json:"reason,omitempty"`
	CancelledAt time.Time `json:"cancelledAt"`
}

type StockAdjustedEvent struct {
	ProductID  uint64       `json:"productId"`
	Type       MovementType `json:"type"`
	Quantity   int64        `json:"quantity"`
	NewStock   int64        `json:"newStock"`
	AdjustedAt time.Time    `json:"adjustedAt"`
}
