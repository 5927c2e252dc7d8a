package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
)

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	user, token, err := svc.Register(context.Background(), &types.RegisterRequest{
		Name:     "Ana",
		Email:    "Ana@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, 3, profile.MealsPerDay)
	assert.Nil(t, profile.MealNames.Data())
	assert.Nil(t, profile.DailyCalorieTarget)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	req := &types.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "password123"}

	_, _, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrUserExists)

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	registered, _, err := svc.Register(context.Background(), &types.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "password123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, token, err := svc.Login(context.Background(), "ana@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.UserID)
		assert.Equal(t, "Ana", claims.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "ana@example.com", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user, _ := testhelpers.CreateUser(t, db, "ana", nil)

	token, err := service.NewAuthService(db, "other-secret").GenerateToken(user)
	require.NoError(t, err)

	_, err = service.NewAuthService(db, "test-secret").ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = service.NewAuthService(db, "test-secret").ValidateToken("not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}
