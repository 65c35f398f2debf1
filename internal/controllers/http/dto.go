package http

import "pos-service/internal/domain"

type OrderItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,max=100,dive"`
	PaymentMethod string             `json:"paymentMethod" binding:"required"`
	Discount      float64            `json:"discount" binding:"min=0"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	Notes         string             `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type AdjustStockRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
	Type      string `json:"type" binding:"required"`
	Reason    string `json:"reason"`
}

type ListResponse struct {
	Data  any   `json:"data"`
	Total int64 `json:"total"`
}

type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type OrderSummaryResponse struct {
	Order     *domain.Order `json:"order"`
	ItemCount int           `json:"itemCount"`
	Subtotal  float64       `json:"subtotal"`
	Discount  float64       `json:"discount"`
	Tax       float64       `json:"tax"`
	Total     float64       `json:"total"`
}
