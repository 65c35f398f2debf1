package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// statusTransitions is the single source of truth for the order state
// machine. CANCELLED is terminal; self-transitions are not allowed.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusCancelled},
	StatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the states reachable from s, for error messages.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	return statusTransitions[s]
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentEWallet  PaymentMethod = "E_WALLET"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentEWallet:
		return true
	}
	return false
}

type Order struct {
	ID            uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber   string        `json:"orderNumber" gorm:"size:32;uniqueIndex;not null"`
	Status        OrderStatus   `json:"status" gorm:"type:enum('PENDING','PROCESSING','COMPLETED','CANCELLED');default:'PENDING';index"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"size:16;not null"`
	Subtotal      float64       `json:"subtotal" gorm:"not null"`
	Discount      float64       `json:"discount" gorm:"not null;default:0"`
	Tax           float64       `json:"tax" gorm:"not null"`
	Total         float64       `json:"total" gorm:"not null"`
	CustomerName  string        `json:"customerName,omitempty" gorm:"size:100"`
	CustomerPhone string        `json:"customerPhone,omitempty" gorm:"size:20"`
	Notes         string        `json:"notes,omitempty" gorm:"size:255"`
	CreatedBy     uint64        `json:"createdBy" gorm:"not null;index"`
	Items         []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time     `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem is a product line captured at order time. Price is the unit
// price snapshot; it does not follow later product price changes.
type OrderItem struct {
	ID        uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64  `json:"orderId" gorm:"not null;index"`
	ProductID uint64  `json:"productId" gorm:"not null;index"`
	Quantity  int64   `json:"quantity" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null"`
	Subtotal  float64 `json:"subtotal" gorm:"not null"`
}

// OrderSummary is returned from order creation.
type OrderSummary struct {
	Order     *Order  `json:"order"`
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}
