package ports

import (
	"context"

	"github.com/apisec/secure-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Role is the
// raw requested role string; normalization happens in the service.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Role     string
}

// LoginResult is the issued credential plus the authorization snapshot it
// embeds, returned to the client on a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
	User        *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
