package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{&ValidationError{Field: "quantity", Message: "must be positive"}, KindValidation},
		{&NotFoundError{Entity: "product", ID: 9}, KindNotFound},
		{&InsufficientStockError{ProductName: "productA", Requested: 11, Available: 10}, KindInsufficientStock},
		{&InvalidOrderStatusError{Current: StatusCancelled, Target: StatusPending}, KindInvalidOrderStatus},
		{&ConflictError{Message: "duplicate order number"}, KindConflict},
	}

	for _, tt := range tests {
		var kinder Kinder
		assert.True(t, errors.As(tt.err, &kinder), "%T should implement Kinder", tt.err)
		assert.Equal(t, tt.kind, kinder.Kind())
		assert.NotEmpty(t, tt.err.Error())
	}
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := &InsufficientStockError{ProductName: "productA", Requested: 11, Available: 10}
	assert.Equal(t, "insufficient stock for productA: requested 11, available 10", err.Error())
}

func TestInvalidOrderStatusError_Message(t *testing.T) {
	err := &InvalidOrderStatusError{Current: StatusPending, Target: StatusPending}
	assert.Contains(t, err.Error(), "from PENDING to PENDING")
	assert.Contains(t, err.Error(), "PROCESSING")

	terminal := &InvalidOrderStatusError{Current: StatusCancelled, Target: StatusCompleted}
	assert.Contains(t, terminal.Error(), "cannot change status")

	// Wrapped errors still expose the kind.
	wrapped := fmt.Errorf("update order: %w", err)
	var kinder Kinder
	assert.True(t, errors.As(wrapped, &kinder))
	assert.Equal(t, KindInvalidOrderStatus, kinder.Kind())
}
