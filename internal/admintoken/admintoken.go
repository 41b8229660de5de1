// Package admintoken issues and verifies the signed credential that guards the
// admin panel. The token is an HS256 JWT carrying role "admin" and an expiry;
// it travels as a URL path segment.
package admintoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role accepted by Verify.
const RoleAdmin = "admin"

// DefaultValidDays is used when Issue is called with a non-positive lifetime.
const DefaultValidDays = 365

var (
	ErrEmptySecret = errors.New("admintoken: empty secret")
	ErrMalformed   = errors.New("admintoken: malformed token")
	ErrSignature   = errors.New("admintoken: invalid signature")
	ErrExpired     = errors.New("admintoken: token expired")
	ErrWrongRole   = errors.New("admintoken: role is not admin")
)

// Claims is the token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and checks tokens with one shared secret.
type Manager struct {
	secret []byte
	now    func() time.Time
}

// New returns a Manager for secret.
func New(secret string) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Manager{secret: []byte(secret), now: time.Now}, nil
}

// Issue returns a token valid for validDays days from now.
func (m *Manager) Issue(validDays int) (string, error) {
	if validDays <= 0 {
		validDays = DefaultValidDays
	}
	now := m.now()
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(validDays) * 24 * time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return s, nil
}

// Verify parses token and returns its claims. Only HS256 is accepted.
// Failures map to ErrMalformed, ErrSignature, ErrExpired or ErrWrongRole.
func (m *Manager) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, ErrSignature
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.Role != RoleAdmin {
		return nil, ErrWrongRole
	}
	return &claims, nil
}
