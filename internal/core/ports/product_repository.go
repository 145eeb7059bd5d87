package ports

import (
	"context"

	"github.com/apisec/secure-api/internal/core/domain"
)

// ProductRepository persists product records.
type ProductRepository interface {
	Insert(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Replace(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}
