package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vivendi/backend/internal/api"
	"vivendi/backend/internal/apperrors"
	"vivendi/backend/internal/model"
	"vivendi/backend/internal/service"
	"vivendi/backend/internal/service/mocks"
)

// routerFor mounts the full HTTP surface with mocked services, which lets the
// tests drive the real middleware chain end to end.
func routerFor(t *testing.T) (http.Handler, *mocks.MockAuthService, *mocks.MockClientService) {
	authSvc := mocks.NewMockAuthService(t)
	clientSvc := mocks.NewMockClientService(t)
	userSvc := mocks.NewMockUserService(t)
	measurementSvc := mocks.NewMockMeasurementService(t)

	rp := api.NewResponder(false)
	handlers := api.Handlers{
		Auth:         api.NewAuthHandler(authSvc, rp),
		Clients:      api.NewClientHandler(clientSvc, rp),
		Users:        api.NewUserHandler(userSvc, rp),
		Measurements: api.NewMeasurementHandler(measurementSvc, rp),
		ERP:          api.NewERPHandler(nil, nil, rp),
	}
	return api.NewRouter(handlers, authSvc, rp, false), authSvc, clientSvc
}

func adminIdentity() *model.Identity {
	return &model.Identity{User: model.User{ID: "admin-1", Username: "admin", Role: model.RoleAdmin}}
}

func clientIdentity() *model.Identity {
	clientID := "7b9e3f1c-9a1e-4a4e-8a95-0f3d2c1b5a67"
	return &model.Identity{
		User:       model.User{ID: "user-1", Username: "tenant", Role: model.RoleClient, ClientID: &clientID},
		ClientName: "Acme",
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	router, _, _ := routerFor(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	// This branch answers with its own literal shape, not the error envelope.
	assert.JSONEq(t, `{"msg": "No authentication token, authorization denied."}`, rr.Body.String())
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	router, authSvc, _ := routerFor(t)
	authSvc.On("FindByToken", mock.Anything, "garbage").Return(nil, apperrors.Unauthorized(apperrors.Params{
		Message: "Invalid or expired token",
		Code:    apperrors.CodeInvalidToken,
	})).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("x-auth-token", "garbage")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Invalid or expired token", body["message"])
	assert.Equal(t, "INVALID_TOKEN", body["code"])
	assert.Equal(t, "UnauthorizedError", body["name"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestAuthenticate_ValidToken(t *testing.T) {
	router, authSvc, _ := routerFor(t)
	authSvc.On("FindByToken", mock.Anything, "good-token").Return(clientIdentity(), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("x-auth-token", "good-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Success bool           `json:"success"`
		Data    api.MeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "good-token", body.Data.Token)
	assert.Equal(t, "tenant", body.Data.User.Username)
	assert.Equal(t, "Acme", body.Data.ClientName)
}

func TestRequireAdmin_ClientRoleRejected(t *testing.T) {
	router, authSvc, _ := routerFor(t)
	authSvc.On("FindByToken", mock.Anything, "tenant-token").Return(clientIdentity(), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	req.Header.Set("x-auth-token", "tenant-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	// Role failures deliberately answer 401, not 403.
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Access denied. Admin privileges required.", body["message"])
	assert.Equal(t, "ADMIN_REQUIRED", body["code"])
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	router, authSvc, clientSvc := routerFor(t)
	authSvc.On("FindByToken", mock.Anything, "admin-token").Return(adminIdentity(), nil).Once()
	clientSvc.On("List", mock.Anything).Return([]*model.Client{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/", nil)
	req.Header.Set("x-auth-token", "admin-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _, _ := routerFor(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/nothing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Route not found: /api/v2/nothing", body["message"])
	assert.Equal(t, "NotFoundError", body["name"])
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := routerFor(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())
}

var _ service.AuthService = (*mocks.MockAuthService)(nil)
