package ports

import (
	"context"

	"github.com/apisec/secure-api/internal/core/domain"
)

// UserRepository persists user records. Uniqueness of email is enforced at
// the store layer; Create returns domain.ErrEmailTaken on a duplicate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	SetRoleAndScopes(ctx context.Context, id, role string, scopes []string) error
}
