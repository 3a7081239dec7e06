package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vivendi/backend/internal/apperrors"
	"vivendi/backend/internal/model"
	"vivendi/backend/internal/repository"
	"vivendi/backend/internal/repository/mocks"
	"vivendi/backend/internal/service"
)

func setupMeasurementService(t *testing.T) (service.MeasurementService, *mocks.MockMeasurementRepository, *mocks.MockClientRepository) {
	measurements := mocks.NewMockMeasurementRepository(t)
	clients := mocks.NewMockClientRepository(t)
	return service.NewMeasurementService(measurements, clients), measurements, clients
}

func TestMeasurementService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Derives the month index", func(t *testing.T) {
		svc, measurements, clients := setupMeasurementService(t)
		clients.On("GetByID", ctx, "c1").Return(&model.Client{ID: "c1"}, nil).Once()
		measurements.On("Create", ctx, mock.MatchedBy(func(m *model.Measurement) bool {
			return m.MonthIndex == 2025*12+6 && m.ID != ""
		})).Return(nil).Once()

		m, err := svc.Create(ctx, service.CreateMeasurementInput{ClientID: "c1", Year: 2025, Month: 7, Good: 5})
		require.NoError(t, err)
		assert.Equal(t, 24306, m.MonthIndex)
		assert.Equal(t, 5, m.Good)
	})

	t.Run("Unknown client", func(t *testing.T) {
		svc, _, clients := setupMeasurementService(t)
		clients.On("GetByID", ctx, "c9").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Create(ctx, service.CreateMeasurementInput{ClientID: "c9", Year: 2025, Month: 1})

		e, ok := apperrors.From(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeClientNotFound, e.Code)
	})
}

func TestMeasurementService_Find(t *testing.T) {
	ctx := context.Background()

	t.Run("Admin filters pass through", func(t *testing.T) {
		svc, measurements, _ := setupMeasurementService(t)
		admin := &model.Identity{User: model.User{Role: model.RoleAdmin}}
		expected := repository.MeasurementFilter{ClientID: "c1", Year: 2024, Month: 6, MinMonthIndex: -1, MaxMonthIndex: -1}
		measurements.On("Find", ctx, expected).Return([]*model.Measurement{}, nil).Once()

		_, err := svc.Find(ctx, admin, service.MeasurementQuery{ClientID: "c1", Year: 2024, Month: 6})
		require.NoError(t, err)
	})

	t.Run("Client role is pinned to its own tenant", func(t *testing.T) {
		svc, measurements, _ := setupMeasurementService(t)
		ownID := "own-tenant"
		tenant := &model.Identity{User: model.User{Role: model.RoleClient, ClientID: &ownID}}
		measurements.On("Find", ctx, mock.MatchedBy(func(f repository.MeasurementFilter) bool {
			return f.ClientID == "own-tenant"
		})).Return(nil, nil).Once()

		// The query asks for someone else's data; the filter ignores it.
		_, err := svc.Find(ctx, tenant, service.MeasurementQuery{ClientID: "other-tenant"})
		require.NoError(t, err)
	})

	t.Run("Client role without a tenant link fails", func(t *testing.T) {
		svc, _, _ := setupMeasurementService(t)
		tenant := &model.Identity{User: model.User{Role: model.RoleClient}}

		_, err := svc.Find(ctx, tenant, service.MeasurementQuery{})

		require.Error(t, err)
		// A plain error, so the sink reports it as unhandled.
		_, ok := apperrors.From(err)
		assert.False(t, ok)
	})

	t.Run("Last12 bounds the window on both sides and sorts ascending", func(t *testing.T) {
		svc, measurements, _ := setupMeasurementService(t)
		admin := &model.Identity{User: model.User{Role: model.RoleAdmin}}
		measurements.On("Find", ctx, mock.MatchedBy(func(f repository.MeasurementFilter) bool {
			now := time.Now().UTC()
			current := model.MonthIndexOf(now.Year(), int(now.Month()))
			// The upper bound is the current month, so rows dated in
			// future months never appear in the trailing window.
			return f.SortAscending && f.MinMonthIndex == current-11 && f.MaxMonthIndex == current
		})).Return(nil, nil).Once()

		_, err := svc.Find(ctx, admin, service.MeasurementQuery{Last12: true})
		require.NoError(t, err)
	})
}
