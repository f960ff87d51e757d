package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/pkg/jwt"
)

func newAuthFixture(t *testing.T) (*fixture, *AuthServiceImpl, *jwt.TokenService) {
	t.Helper()
	f := newFixture(t)
	tokens := jwt.NewTokenService("test-secret", 3600)
	return f, NewAuthService(f.userRepo, tokens), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	_, auth, tokens := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, &models.RegisterRequest{
		Email:    "budi@example.com",
		Name:     "Budi",
		Password: "rahasia123",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, user.PointBalance)
	assert.NotEqual(t, "rahasia123", user.PasswordHash)

	resp, err := auth.Login(ctx, &models.LoginRequest{
		Email:    "budi@example.com",
		Password: "rahasia123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	subject, err := tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, auth, _ := newAuthFixture(t)
	ctx := context.Background()

	req := &models.RegisterRequest{
		Email:    "budi@example.com",
		Name:     "Budi",
		Password: "rahasia123",
	}
	_, err := auth.Register(ctx, req)
	require.NoError(t, err)

	_, err = auth.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	_, auth, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &models.RegisterRequest{
		Email:    "budi@example.com",
		Name:     "Budi",
		Password: "rahasia123",
	})
	require.NoError(t, err)

	_, err = auth.Login(ctx, &models.LoginRequest{
		Email:    "budi@example.com",
		Password: "salah",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	_, auth, _ := newAuthFixture(t)

	_, err := auth.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
