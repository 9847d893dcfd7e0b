package backend

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	serviceSubject  = "etqan-payroll"
	defaultTokenTTL = 5 * time.Minute
)

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// JWTTokenSource signs a short-lived HS256 service token for every request.
type JWTTokenSource struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTTokenSource(secret string, ttl time.Duration) *JWTTokenSource {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTTokenSource{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *JWTTokenSource) Token(_ context.Context) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   serviceSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
