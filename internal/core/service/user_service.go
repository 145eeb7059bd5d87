package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/apisec/secure-api/internal/core/domain"
	"github.com/apisec/secure-api/internal/core/ports"
)

// UserService implements the admin-facing user-directory operations.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// Elevate promotes the user to admin with the full scope set.
func (s *UserService) Elevate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	scopes := domain.ScopesForRole(domain.RoleAdmin)
	if err := s.repo.SetRoleAndScopes(ctx, id, domain.RoleAdmin, scopes); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user elevated to admin")
	return nil
}
