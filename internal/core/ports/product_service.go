package ports

import (
	"context"

	"github.com/apisec/secure-api/internal/core/domain"
)

// ProductInput is the full set of mutable product fields. Update replaces
// all of them; there are no partial updates.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput, createdBy string) (*domain.Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
