package domain

import (
	"fmt"
	"strings"
)

// Error kinds are stable machine-readable identifiers exposed to API
// clients alongside the human-readable message.
const (
	KindValidation         = "VALIDATION_ERROR"
	KindNotFound           = "NOT_FOUND"
	KindInsufficientStock  = "INSUFFICIENT_STOCK"
	KindInvalidOrderStatus = "INVALID_ORDER_STATUS"
	KindConflict           = "CONFLICT"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Kind() string { return KindValidation }

type NotFoundError struct {
	Entity string
	ID     uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Kind() string { return KindNotFound }

type InsufficientStockError struct {
	ProductName string
	Requested   int64
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Kind() string { return KindInsufficientStock }

type InvalidOrderStatusError struct {
	Current OrderStatus
	Target  OrderStatus
}

func (e *InvalidOrderStatusError) Error() string {
	allowed := e.Current.AllowedTransitions()
	if len(allowed) == 0 {
		return fmt.Sprintf("order is %s and cannot change status", e.Current)
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return fmt.Sprintf("cannot change order status from %s to %s, allowed: %s", e.Current, e.Target, strings.Join(names, ", "))
}

func (e *InvalidOrderStatusError) Kind() string { return KindInvalidOrderStatus }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Kind() string { return KindConflict }

// Kinder is implemented by every recoverable domain error.
type Kinder interface {
	error
	Kind() string
}
