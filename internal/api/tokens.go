package api

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"skinanalyze/internal/models"
)

const DefaultTokenTTL = 24 * time.Hour

var ErrRevoked = errors.New("token has been revoked")

// Claims are carried in every access token.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens. Logged-out tokens are kept
// in a deny list until they expire.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokens(secret []byte, ttl time.Duration) (*Tokens, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("signing key must be at least 32 bytes, got %d", len(secret))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: secret, ttl: ttl, now: time.Now, revoked: map[string]time.Time{}}, nil
}

func (t *Tokens) Issue(userID string, role models.Role) (string, error) {
	now := t.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *Tokens) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	if !claims.Role.Valid() || claims.Subject == "" {
		return nil, errors.New("token is missing subject or role")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.revoked[claims.ID]; ok {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke denies the token until its expiry.
func (t *Tokens) Revoke(c *Claims) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for id, exp := range t.revoked {
		if exp.Before(now) {
			delete(t.revoked, id)
		}
	}
	exp := now.Add(t.ttl)
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}
	t.revoked[c.ID] = exp
}
