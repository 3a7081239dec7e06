package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vivendi/backend/internal/apperrors"
	"vivendi/backend/internal/model"
	"vivendi/backend/internal/repository"
	"vivendi/backend/internal/repository/mocks"
	"vivendi/backend/internal/service"
)

const testSecret = "test-secret"

func setupAuthService(t *testing.T) (service.AuthService, *mocks.MockUserRepository, *mocks.MockClientRepository) {
	users := mocks.NewMockUserRepository(t)
	clients := mocks.NewMockClientRepository(t)
	return service.NewAuthService(users, clients, testSecret), users, clients
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success issues a resolvable token", func(t *testing.T) {
		svc, users, _ := setupAuthService(t)
		user := &model.User{ID: "u1", Username: "maria", Password: hashOf(t, "secret1"), Role: model.RoleAdmin}
		users.On("GetByUsername", ctx, "maria").Return(user, nil).Once()

		result, err := svc.Login(ctx, "maria", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "maria", result.User.Username)

		// The token round-trips through FindByToken on the same service.
		users.On("GetByID", ctx, "u1").Return(user, nil).Once()
		identity, err := svc.FindByToken(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", identity.User.ID)
	})

	t.Run("Unknown username", func(t *testing.T) {
		svc, users, _ := setupAuthService(t)
		users.On("GetByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Login(ctx, "ghost", "whatever")

		e, ok := apperrors.From(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeInvalidCredentials, e.Code)
		assert.Equal(t, "Invalid credentials", e.Message)
	})

	t.Run("Wrong password reads the same as unknown username", func(t *testing.T) {
		svc, users, _ := setupAuthService(t)
		user := &model.User{ID: "u1", Username: "maria", Password: hashOf(t, "secret1")}
		users.On("GetByUsername", ctx, "maria").Return(user, nil).Once()

		_, err := svc.Login(ctx, "maria", "wrong")

		e, ok := apperrors.From(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeInvalidCredentials, e.Code)
		assert.Equal(t, "Invalid credentials", e.Message)
	})
}

func TestAuthService_FindByToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Garbage token", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)

		_, err := svc.FindByToken(ctx, "not-a-jwt")

		e, ok := apperrors.From(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeInvalidToken, e.Code)
		assert.Equal(t, "Invalid or expired token", e.Message)
	})

	t.Run("Token signed with a different secret", func(t *testing.T) {
		otherSvc := service.NewAuthService(mocks.NewMockUserRepository(t), mocks.NewMockClientRepository(t), "other-secret")
		users := mocks.NewMockUserRepository(t)
		user := &model.User{ID: "u1", Username: "maria", Password: hashOf(t, "secret1")}
		users.On("GetByUsername", ctx, "maria").Return(user, nil).Once()
		issuer := service.NewAuthService(users, mocks.NewMockClientRepository(t), testSecret)

		result, err := issuer.Login(ctx, "maria", "secret1")
		require.NoError(t, err)

		_, err = otherSvc.FindByToken(ctx, result.Token)

		e, ok := apperrors.From(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeInvalidToken, e.Code)
	})

	t.Run("Token for a deleted user", func(t *testing.T) {
		svc, users, _ := setupAuthService(t)
		user := &model.User{ID: "u1", Username: "maria", Password: hashOf(t, "secret1")}
		users.On("GetByUsername", ctx, "maria").Return(user, nil).Once()

		result, err := svc.Login(ctx, "maria", "secret1")
		require.NoError(t, err)

		users.On("GetByID", ctx, "u1").Return(nil, repository.ErrNotFound).Once()
		_, err = svc.FindByToken(ctx, result.Token)

		e, ok := apperrors.From(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeUserNotFound, e.Code)
		assert.Equal(t, "User not found for the provided token", e.Message)
	})

	t.Run("Client-role identity carries the tenant name", func(t *testing.T) {
		svc, users, clients := setupAuthService(t)
		clientID := "c1"
		user := &model.User{ID: "u1", Username: "tenant", Password: hashOf(t, "secret1"), Role: model.RoleClient, ClientID: &clientID}
		users.On("GetByUsername", ctx, "tenant").Return(user, nil).Once()

		result, err := svc.Login(ctx, "tenant", "secret1")
		require.NoError(t, err)

		users.On("GetByID", ctx, "u1").Return(user, nil).Once()
		clients.On("GetByID", ctx, "c1").Return(&model.Client{ID: "c1", Name: "Acme"}, nil).Once()

		identity, err := svc.FindByToken(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, "Acme", identity.ClientName)
	})

	t.Run("Vanished tenant is tolerated", func(t *testing.T) {
		svc, users, clients := setupAuthService(t)
		clientID := "c1"
		user := &model.User{ID: "u1", Username: "tenant", Password: hashOf(t, "secret1"), Role: model.RoleClient, ClientID: &clientID}
		users.On("GetByUsername", ctx, "tenant").Return(user, nil).Once()

		result, err := svc.Login(ctx, "tenant", "secret1")
		require.NoError(t, err)

		users.On("GetByID", ctx, "u1").Return(user, nil).Once()
		clients.On("GetByID", ctx, "c1").Return(nil, repository.ErrNotFound).Once()

		identity, err := svc.FindByToken(ctx, result.Token)
		require.NoError(t, err)
		assert.Empty(t, identity.ClientName)
	})
}
