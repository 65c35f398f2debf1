package services

import (
	"testing"

	"pos-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestPricer_Compute(t *testing.T) {
	pricer := NewPricer(1_000_000)

	tests := []struct {
		name          string
		items         []PricedItem
		discount      float64
		expectedError string
		subtotal      float64
		tax           float64
		total         float64
	}{
		{
			name: "two item order without discount",
			items: []PricedItem{
				{ProductID: 1, Quantity: 2, UnitPrice: 50000},
				{ProductID: 2, Quantity: 1, UnitPrice: 30000},
			},
			subtotal: 130000,
			tax:      13000,
			total:    143000,
		},
		{
			name: "discount reduces taxable base",
			items: []PricedItem{
				{ProductID: 1, Quantity: 1, UnitPrice: 100000},
			},
			discount: 20000,
			subtotal: 100000,
			tax:      8000,
			total:    88000,
		},
		{
			name: "discount equal to subtotal",
			items: []PricedItem{
				{ProductID: 1, Quantity: 1, UnitPrice: 5000},
			},
			discount: 5000,
			subtotal: 5000,
			tax:      0,
			total:    0,
		},
		{
			name:          "empty item list",
			items:         nil,
			expectedError: "at least one item",
		},
		{
			name: "zero quantity",
			items: []PricedItem{
				{ProductID: 1, Quantity: 0, UnitPrice: 1000},
			},
			expectedError: "quantity must be positive",
		},
		{
			name: "negative unit price",
			items: []PricedItem{
				{ProductID: 1, Quantity: 1, UnitPrice: -10},
			},
			expectedError: "unit price must be positive",
		},
		{
			name: "negative discount",
			items: []PricedItem{
				{ProductID: 1, Quantity: 1, UnitPrice: 1000},
			},
			discount:      -1,
			expectedError: "discount cannot be negative",
		},
		{
			name: "discount exceeds subtotal",
			items: []PricedItem{
				{ProductID: 1, Quantity: 1, UnitPrice: 1000},
			},
			discount:      2000,
			expectedError: "discount cannot exceed subtotal",
		},
		{
			name: "discount exceeds ceiling",
			items: []PricedItem{
				{ProductID: 1, Quantity: 100, UnitPrice: 100000},
			},
			discount:      2_000_000,
			expectedError: "discount exceeds maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := pricer.Compute(tt.items, tt.discount)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Nil(t, totals)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.subtotal, totals.Subtotal)
			assert.Equal(t, tt.discount, totals.Discount)
			assert.Equal(t, tt.tax, totals.Tax)
			assert.Equal(t, tt.total, totals.Total)
		})
	}
}

func TestPricer_Compute_TooManyItems(t *testing.T) {
	pricer := NewPricer(1_000_000)

	items := make([]PricedItem, MaxOrderItems+1)
	for i := range items {
		items[i] = PricedItem{ProductID: uint64(i + 1), Quantity: 1, UnitPrice: 100}
	}

	totals, err := pricer.Compute(items, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "more than 100 items")
	assert.Nil(t, totals)
}

// Tax of 10% over an amount ending in .x5 must round half-up, and the
// result must be stable across invocations.
func TestPricer_Compute_RoundingHalfUp(t *testing.T) {
	pricer := NewPricer(1_000_000)

	// subtotal 10.25, tax = 1.025 -> 1.03 half-up
	items := []PricedItem{{ProductID: 1, Quantity: 1, UnitPrice: 10.25}}

	for i := 0; i < 10; i++ {
		totals, err := pricer.Compute(items, 0)
		assert.NoError(t, err)
		assert.Equal(t, 10.25, totals.Subtotal)
		assert.Equal(t, 1.03, totals.Tax)
		assert.Equal(t, 11.28, totals.Total)
	}

	// subtotal 10.15, tax = 1.015 -> 1.02 half-up
	totals, err := pricer.Compute([]PricedItem{{ProductID: 1, Quantity: 1, UnitPrice: 10.15}}, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1.02, totals.Tax)
	assert.Equal(t, 11.17, totals.Total)
}

func TestPricer_Compute_ItemSubtotals(t *testing.T) {
	pricer := NewPricer(1_000_000)

	totals, err := pricer.Compute([]PricedItem{
		{ProductID: 1, Quantity: 3, UnitPrice: 19.99},
		{ProductID: 2, Quantity: 2, UnitPrice: 5.50},
	}, 0)

	assert.NoError(t, err)
	assert.Equal(t, []float64{59.97, 11.00}, totals.ItemSubtotals)
	assert.Equal(t, 70.97, totals.Subtotal)
}
