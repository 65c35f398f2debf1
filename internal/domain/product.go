package domain

import "time"

// Product holds the sellable catalog entry plus its on-hand stock. The
// stock column is a materialized projection of the movement ledger; the
// two are updated in the same transaction.
type Product struct {
	ID         uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	SKU        string    `json:"sku" gorm:"size:50;uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Price      float64   `json:"price" gorm:"not null"`
	Stock      int64     `json:"stock" gorm:"not null;default:0"`
	MinStock   int64     `json:"minStock" gorm:"not null;default:0"`
	CategoryID uint64    `json:"categoryId" gorm:"index"`
	IsActive   bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// LowOnStock reports whether the product is at or below its reorder threshold.
func (p *Product) LowOnStock() bool {
	return p.Stock <= p.MinStock
}
