package backend_test

import (
	"context"
	"testing"
	"time"

	"etqan-payroll/internal/backend"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTTokenSource_SignsHS256(t *testing.T) {
	src := backend.NewJWTTokenSource("s3cret", time.Minute)

	raw, err := src.Token(context.Background())
	assert.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	assert.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "etqan-payroll", claims.Subject)
}
