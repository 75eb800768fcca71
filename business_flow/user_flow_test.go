package businessflow

import (
	"testing"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/app/services"
	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	testingutil "github.com/eylemk/santral/testing"
	"github.com/eylemk/santral/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserFlow(t *testing.T, testDB *testingutil.TestDB) UserFlow {
	tokenService, err := services.NewTokenService(config.JWTConfig{
		SecretKey:      "test-secret-key-with-32-characters!",
		AccessTokenTTL: time.Hour,
		Issuer:         "santral-test",
		Audience:       "santral-operators",
	})
	require.NoError(t, err)
	return NewUserFlow(repository.NewUserRepository(testDB.DB), tokenService)
}

func TestUserFlowLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := newTestUserFlow(t, testDB)
		meta := NewClientMetadata("127.0.0.1", "test")

		user, err := fixtures.CreateTestUser(models.RoleAgent)
		require.NoError(t, err)

		t.Run("Success", func(t *testing.T) {
			res, err := flow.Login(ctx, &dto.LoginRequest{
				Username: user.Username,
				Password: "TestPass123!",
			}, meta)
			require.NoError(t, err)
			assert.NotEmpty(t, res.AccessToken)
			assert.Equal(t, user.Username, res.User.Username)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			res, err := flow.Login(ctx, &dto.LoginRequest{
				Username: user.Username,
				Password: "wrong-password",
			}, meta)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsUserNotFound(err))
		})

		t.Run("UnknownUsername", func(t *testing.T) {
			res, err := flow.Login(ctx, &dto.LoginRequest{
				Username: "nobody",
				Password: "TestPass123!",
			}, meta)
			assert.Nil(t, res)
			require.Error(t, err)
		})

		t.Run("InactiveUser", func(t *testing.T) {
			inactive, err := fixtures.CreateTestUser(models.RoleAgent)
			require.NoError(t, err)
			inactive.IsActive = utils.ToPtr(false)
			require.NoError(t, testDB.DB.Save(inactive).Error)

			res, err := flow.Login(ctx, &dto.LoginRequest{
				Username: inactive.Username,
				Password: "TestPass123!",
			}, meta)
			assert.Nil(t, res)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUserFlowCreateAndDeactivate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()
		flow := newTestUserFlow(t, testDB)
		meta := NewClientMetadata("127.0.0.1", "test")

		t.Run("Create", func(t *testing.T) {
			item, err := flow.CreateUser(ctx, &dto.CreateUserRequest{
				Username: "yeni.operator",
				FullName: "Yeni Operatör",
				Password: "Sifre12345",
				Role:     models.RoleAgent,
			}, meta)
			require.NoError(t, err)
			assert.Equal(t, "yeni.operator", item.Username)

			// Created operator can log in
			res, err := flow.Login(ctx, &dto.LoginRequest{
				Username: "yeni.operator",
				Password: "Sifre12345",
			}, meta)
			require.NoError(t, err)
			assert.NotEmpty(t, res.AccessToken)
		})

		t.Run("DuplicateUsername", func(t *testing.T) {
			_, err := flow.CreateUser(ctx, &dto.CreateUserRequest{
				Username: "yeni.operator",
				FullName: "Başka Biri",
				Password: "Sifre12345",
				Role:     models.RoleAgent,
			}, meta)
			require.Error(t, err)
		})

		t.Run("Deactivate", func(t *testing.T) {
			users, err := flow.ListUsers(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, users.Items)

			err = flow.DeactivateUser(ctx, users.Items[0].ID, meta)
			require.NoError(t, err)

			// Deactivated operator can no longer log in
			res, err := flow.Login(ctx, &dto.LoginRequest{
				Username: "yeni.operator",
				Password: "Sifre12345",
			}, meta)
			assert.Nil(t, res)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
