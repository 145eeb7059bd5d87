package ports

import (
	"context"

	"github.com/apisec/secure-api/internal/core/domain"
)

// UserService exposes the user-directory operations available to admins.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	// Elevate unconditionally promotes the user to admin with the full
	// scope set. There is no downgrade operation.
	Elevate(ctx context.Context, id string) error
}
