package domain

import (
	"fmt"
	"time"
)

type MovementType string

const (
	MovementSale       MovementType = "SALE"
	MovementPurchase   MovementType = "PURCHASE"
	MovementReturn     MovementType = "RETURN"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementDamaged    MovementType = "DAMAGED"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementSale, MovementPurchase, MovementReturn, MovementAdjustment, MovementDamaged:
		return true
	}
	return false
}

// Direction is +1 for movements that add stock and -1 for movements that
// remove it. Quantity is always stored positive; the type carries the sign.
func (t MovementType) Direction() int64 {
	switch t {
	case MovementSale, MovementDamaged:
		return -1
	default:
		return 1
	}
}

// StockMovement is an append-only ledger entry. Rows are never updated or
// deleted; replaying all rows for a product from stock 0 must reproduce
// the product's current stock.
type StockMovement struct {
	ID            uint64       `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID     uint64       `json:"productId" gorm:"not null;index"`
	Type          MovementType `json:"type" gorm:"type:enum('SALE','PURCHASE','RETURN','ADJUSTMENT','DAMAGED');not null;index"`
	Quantity      int64        `json:"quantity" gorm:"not null"`
	PreviousStock int64        `json:"previousStock" gorm:"not null"`
	NewStock      int64        `json:"newStock" gorm:"not null"`
	Reason        string       `json:"reason,omitempty" gorm:"size:255"`
	Reference     string       `json:"reference,omitempty" gorm:"size:50;index"`
	CreatedBy     uint64       `json:"createdBy" gorm:"not null"`
	CreatedAt     time.Time    `json:"createdAt" gorm:"autoCreateTime"`
}

// Validate checks the ledger entry invariants before it is accepted:
// positive quantity, non-negative resulting balance, and a new balance
// that matches previous adjusted by quantity in the type's direction.
func (m *StockMovement) Validate() error {
	if !m.Type.Valid() {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown movement type %q", m.Type)}
	}
	if m.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: "quantity must be positive"}
	}
	if m.NewStock < 0 {
		return &ValidationError{Field: "newStock", Message: "stock cannot go negative"}
	}
	if want := m.PreviousStock + m.Type.Direction()*m.Quantity; m.NewStock != want {
		return &ValidationError{
			Field:   "newStock",
			Message: fmt.Sprintf("balance mismatch for %s: previous %d quantity %d, expected %d got %d", m.Type, m.PreviousStock, m.Quantity, want, m.NewStock),
		}
	}
	return nil
}

// MovementStats aggregates the ledger per movement type.
type MovementStats struct {
	Type  MovementType `json:"type"`
	Count int64        `json:"count"`
	Total int64        `json:"totalQuantity"`
}
