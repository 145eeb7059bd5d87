// Package token issues and verifies the signed bearer tokens carried on
// protected routes. Verification is a pure function of the token string and
// the server secret; it never touches the user store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired means the token parsed and its signature checked out, but
	// its expiry is in the past.
	ErrExpired = errors.New("token expired")
	// ErrMalformed covers everything that prevents trusting the token:
	// unparseable input, a wrong signing algorithm, or a signature made
	// with a different secret.
	ErrMalformed = errors.New("token malformed")
	// ErrMissingSubject means the token verified but carries no subject claim.
	ErrMissingSubject = errors.New("token missing subject")
)

// Claims is the verified payload of a token: the authorization snapshot
// taken at issuance time.
type Claims struct {
	Subject   string
	Role      string
	Scopes    []string
	ExpiresAt time.Time
}

type jwtClaims struct {
	Role   string   `json:"role"`
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a symmetric secret using HS256.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue creates a signed token for subject expiring at now + ttl. Role and
// scopes are embedded as a snapshot; they are not re-derived on verification.
func (c *Codec) Issue(subject, role string, scopes []string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwtClaims{
		Role:   role,
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token string. It returns ErrExpired,
// ErrMalformed or ErrMissingSubject on failure.
func (c *Codec) Verify(raw string) (*Claims, error) {
	var claims jwtClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !tkn.Valid {
		return nil, ErrMalformed
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	out := &Claims{
		Subject: claims.Subject,
		Role:    claims.Role,
		Scopes:  claims.Scopes,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
