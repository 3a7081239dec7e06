package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vivendi/backend/internal/apperrors"
	"vivendi/backend/internal/model"
	"vivendi/backend/internal/repository"
)

// CreateMeasurementInput is the matched data for a new monthly report.
type CreateMeasurementInput struct {
	ClientID string
	Year     int
	Month    int

	Good           int
	Observation    int
	Unsatisfactory int
	Danger         int
	Unmeasured     int

	Causes model.CauseBreakdown
}

// MeasurementQuery narrows the listing. Last12 selects the trailing 12
// calendar months relative to the current UTC month and flips the sort to
// ascending so charts read left to right.
type MeasurementQuery struct {
	ClientID string
	Year     int
	Month    int
	Last12   bool
}

type measurementService struct {
	measurements repository.MeasurementRepository
	clients      repository.ClientRepository
	now          func() time.Time
}

func NewMeasurementService(measurements repository.MeasurementRepository, clients repository.ClientRepository) MeasurementService {
	return &measurementService{
		measurements: measurements,
		clients:      clients,
		now:          time.Now,
	}
}

func (s *measurementService) Create(ctx context.Context, input CreateMeasurementInput) (*model.Measurement, error) {
	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.Params{
				Message: fmt.Sprintf("Client with id %s not found", input.ClientID),
				Code:    apperrors.CodeClientNotFound,
			})
		}
		return nil, err
	}

	now := s.now().UTC()
	m := &model.Measurement{
		ID:             uuid.NewString(),
		ClientID:       input.ClientID,
		Year:           input.Year,
		Month:          input.Month,
		MonthIndex:     model.MonthIndexOf(input.Year, input.Month),
		Good:           input.Good,
		Observation:    input.Observation,
		Unsatisfactory: input.Unsatisfactory,
		Danger:         input.Danger,
		Unmeasured:     input.Unmeasured,
		Causes:         input.Causes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.measurements.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("could not create measurement: %w", err)
	}
	return m, nil
}

// Find lists measurements for the caller. Client-role identities are always
// scoped to their own tenant, whatever the query says.
func (s *measurementService) Find(ctx context.Context, identity *model.Identity, query MeasurementQuery) ([]*model.Measurement, error) {
	clientID := query.ClientID
	if identity != nil && identity.User.Role == model.RoleClient {
		if identity.User.ClientID == nil {
			return nil, errors.New("client ID is required")
		}
		clientID = *identity.User.ClientID
	}

	filter := repository.MeasurementFilter{
		ClientID:      clientID,
		Year:          query.Year,
		Month:         query.Month,
		MinMonthIndex: -1,
		MaxMonthIndex: -1,
	}
	if query.Last12 {
		// The window is bounded on both sides: trailing 12 months up to and
		// including the current UTC month, never beyond it.
		current := model.MonthIndexOf(s.now().UTC().Year(), int(s.now().UTC().Month()))
		filter.MinMonthIndex = current - 11
		filter.MaxMonthIndex = current
		filter.SortAscending = true
	}

	return s.measurements.Find(ctx, filter)
}
