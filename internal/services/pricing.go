package services

import (
	"fmt"

	"pos-service/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	TaxRate       = 0.10
	MaxOrderItems = 100
)

// PricedItem is a validated line item going into total computation.
type PricedItem struct {
	ProductID uint64
	Quantity  int64
	UnitPrice float64
}

// OrderTotals is the output of the aggregator, all values rounded to two
// decimal places.
type OrderTotals struct {
	Subtotal      float64
	Discount      float64
	Tax           float64
	Total         float64
	ItemSubtotals []float64
}

// Pricer computes order totals. It is pure: no I/O, no clock, no state
// beyond the configured discount ceiling.
type Pricer struct {
	maxDiscount decimal.Decimal
}

func NewPricer(maxDiscount float64) *Pricer {
	return &Pricer{maxDiscount: decimal.NewFromFloat(maxDiscount)}
}

// Compute validates the items and discount and returns the totals:
// subtotal = sum(price*qty), tax = round2((subtotal-discount)*0.10),
// total = subtotal - discount + tax. Rounding is half-up to 2 decimals.
func (p *Pricer) Compute(items []PricedItem, discount float64) (*OrderTotals, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Message: "order must contain at least one item"}
	}
	if len(items) > MaxOrderItems {
		return nil, &domain.ValidationError{Field: "items", Message: fmt.Sprintf("order cannot contain more than %d items", MaxOrderItems)}
	}
	if discount < 0 {
		return nil, &domain.ValidationError{Field: "discount", Message: "discount cannot be negative"}
	}

	disc := decimal.NewFromFloat(discount)
	if disc.GreaterThan(p.maxDiscount) {
		return nil, &domain.ValidationError{Field: "discount", Message: fmt.Sprintf("discount exceeds maximum of %s", p.maxDiscount.StringFixed(2))}
	}

	subtotal := decimal.Zero
	itemSubtotals := make([]float64, len(items))
	for i, it := range items {
		if it.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "quantity", Message: fmt.Sprintf("item %d: quantity must be positive", i)}
		}
		if it.UnitPrice <= 0 {
			return nil, &domain.ValidationError{Field: "price", Message: fmt.Sprintf("item %d: unit price must be positive", i)}
		}
		line := decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(it.Quantity)).Round(2)
		itemSubtotals[i], _ = line.Float64()
		subtotal = subtotal.Add(line)
	}

	if disc.GreaterThan(subtotal) {
		return nil, &domain.ValidationError{Field: "discount", Message: "discount cannot exceed subtotal"}
	}

	// decimal.Round is round-half-away-from-zero, which equals half-up
	// for the non-negative amounts handled here.
	taxable := subtotal.Sub(disc)
	tax := taxable.Mul(decimal.NewFromFloat(TaxRate)).Round(2)
	total := subtotal.Sub(disc).Add(tax).Round(2)

	out := &OrderTotals{ItemSubtotals: itemSubtotals}
	out.Subtotal, _ = subtotal.Round(2).Float64()
	out.Discount, _ = disc.Round(2).Float64()
	out.Tax, _ = tax.Float64()
	out.Total, _ = total.Float64()
	return out, nil
}
