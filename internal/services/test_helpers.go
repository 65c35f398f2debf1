package services

import (
	"pos-service/internal/domain"
	"pos-service/internal/mocks"
)

func seedProduct(store *mocks.MemStore, id uint64, name string, price float64, stock int64) {
	store.SeedProduct(domain.Product{
		ID:       id,
		SKU:      name,
		Name:     name,
		Price:    price,
		Stock:    stock,
		IsActive: true,
	})
}

func seedInactiveProduct(store *mocks.MemStore, id uint64, name string, price float64, stock int64) {
	store.SeedProduct(domain.Product{
		ID:       id,
		SKU:      name,
		Name:     name,
		Price:    price,
		Stock:    stock,
		IsActive: false,
	})
}

const (
	testActorID     = uint64(7)
	testMaxDiscount = float64(1_000_000)
)
