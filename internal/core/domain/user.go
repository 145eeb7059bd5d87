package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

const (
	ScopeRead   = "read"
	ScopeWrite  = "write"
	ScopeDelete = "delete"
	ScopeAdmin  = "admin"
)

// User models an authenticated actor in the system. PasswordHash is never
// serialized outward.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	Scopes       []string  `json:"scopes" bson:"scopes"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// HasScope reports whether the user's scope set contains s.
func (u *User) HasScope(s string) bool {
	for _, scope := range u.Scopes {
		if scope == s {
			return true
		}
	}
	return false
}

// NormalizeRole maps a raw role string to a canonical role. Casing and
// surrounding whitespace are ignored. An empty role defaults to RoleUser;
// anything unrecognized falls back to RoleGuest, the read-only default.
func NormalizeRole(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return RoleUser
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	case RoleGuest:
		return RoleGuest
	default:
		return RoleGuest
	}
}

// ScopesForRole returns the scope set assigned to a canonical role at
// registration time. The returned slice is a fresh copy.
func ScopesForRole(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{ScopeRead, ScopeWrite, ScopeDelete, ScopeAdmin}
	case RoleUser:
		return []string{ScopeRead, ScopeWrite}
	default:
		return []string{ScopeRead}
	}
}
