package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testClaims(userID int64, role string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      strconv.FormatInt(userID, 10),
		"username": "alice",
		"role":     role,
		"iat":      time.Now().Unix(),
		"exp":      exp.Unix(),
	}
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	svc := NewAuthService(nil, nil, nil, testSecret)
	future := time.Now().Add(time.Hour)

	t.Run("accepts a well-formed token", func(t *testing.T) {
		tok := signTestToken(t, testSecret, testClaims(42, model.RoleAdmin, future))

		ident, err := svc.ValidateAccessToken(tok)
		require.NoError(t, err)
		assert.Equal(t, int64(42), ident.UserID)
		assert.Equal(t, "alice", ident.Username)
		assert.Equal(t, model.RoleAdmin, ident.Role)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		tok := signTestToken(t, testSecret, testClaims(42, model.RoleMember, time.Now().Add(-time.Minute)))

		_, err := svc.ValidateAccessToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		tok := signTestToken(t, "other-secret", testClaims(42, model.RoleMember, future))

		_, err := svc.ValidateAccessToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an unknown role claim", func(t *testing.T) {
		tok := signTestToken(t, testSecret, testClaims(42, "superuser", future))

		_, err := svc.ValidateAccessToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a missing subject", func(t *testing.T) {
		claims := testClaims(42, model.RoleMember, future)
		delete(claims, "sub")
		tok := signTestToken(t, testSecret, claims)

		_, err := svc.ValidateAccessToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := NewAuthService(nil, nil, nil, testSecret)
	ctx := context.Background()

	t.Run("rejects short usernames", func(t *testing.T) {
		_, err := svc.Register(ctx, &model.RegisterRequest{Username: "ab", Password: "secret123", Code: "x"})
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("rejects oversized usernames", func(t *testing.T) {
		long := make([]byte, 33)
		for i := range long {
			long[i] = 'a'
		}
		_, err := svc.Register(ctx, &model.RegisterRequest{Username: string(long), Password: "secret123", Code: "x"})
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("trims whitespace before length checks", func(t *testing.T) {
		_, err := svc.Register(ctx, &model.RegisterRequest{Username: "  a  ", Password: "secret123", Code: "x"})
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := svc.Register(ctx, &model.RegisterRequest{Username: "alice", Password: "12345", Code: "x"})
		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestHashToken(t *testing.T) {
	a := hashToken("token-a")
	b := hashToken("token-b")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, hashToken("token-a"))
}
