package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/apisec/secure-api/internal/core/domain"
	"github.com/apisec/secure-api/internal/core/ports"
	"github.com/apisec/secure-api/internal/pkg/password"
	"github.com/apisec/secure-api/internal/pkg/token"
)

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	codec    *token.Codec
	tokenTTL time.Duration
	logger   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, codec *token.Codec, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &AuthService{repo: repo, codec: codec, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a new account. The requested role is normalized and the
// scope set derived from it; duplicate emails surface as ErrEmailTaken via
// the store's unique constraint, not a pre-check.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := domain.NormalizeRole(input.Role)
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		Role:         role,
		Scopes:       domain.ScopesForRole(role),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller; disabled accounts are
// rejected before any token is issued.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*ports.LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	tok, err := s.codec.Issue(user.ID, user.Role, user.Scopes, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")

	return &ports.LoginResult{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        user,
	}, nil
}
