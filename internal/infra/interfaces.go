package infra

import "context"

type CatalogClientInterface interface {
	GetCategoryById(ctx context.Context, id uint64) (*CategoryInfo, error)
}

var _ CatalogClientInterface = (*CatalogClient)(nil)
