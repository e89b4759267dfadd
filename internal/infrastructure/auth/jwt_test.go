package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/authgate/internal/domain"
	"github.com/iho/authgate/internal/infrastructure/auth"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "a@b.com",
		Role:  domain.Role{Name: domain.RoleAdmin},
	}
}

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", 15*time.Minute)

	token, err := manager.Generate(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", -time.Minute)

	token, err := manager.Generate(testUser())
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", 15*time.Minute)
	other := auth.NewJWTManager("different", 15*time.Minute)

	token, err := manager.Generate(testUser())
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTManager_Garbage(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", 15*time.Minute)

	_, err := manager.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
