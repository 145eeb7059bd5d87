package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/apisec/secure-api/internal/core/domain"
)

func seedUser(repo *stubUserRepo, id, role string) *domain.User {
	user := &domain.User{
		ID:        id,
		Email:     id + "@example.com",
		Username:  id,
		Role:      role,
		Scopes:    domain.ScopesForRole(role),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	repo.users[id] = user
	return user
}

func TestUserService_Elevate(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", domain.RoleGuest)
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.Elevate(context.Background(), "u1"); err != nil {
		t.Fatalf("Elevate returned error: %v", err)
	}

	u := repo.users["u1"]
	if u.Role != domain.RoleAdmin {
		t.Fatalf("role = %q, want admin", u.Role)
	}
	want := []string{"read", "write", "delete", "admin"}
	if len(u.Scopes) != len(want) {
		t.Fatalf("scopes = %v, want %v", u.Scopes, want)
	}
	for i, s := range want {
		if u.Scopes[i] != s {
			t.Fatalf("scopes = %v, want %v", u.Scopes, want)
		}
	}
}

func TestUserService_Elevate_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	if err := svc.Elevate(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", domain.RoleUser)
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := repo.users["u1"]; ok {
		t.Fatalf("user still present after delete")
	}
	if err := svc.Delete(context.Background(), "u1"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", domain.RoleUser)
	seedUser(repo, "u2", domain.RoleAdmin)
	svc := NewUserService(repo, zerolog.Nop())

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
