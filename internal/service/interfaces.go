package service

import (
	"context"

	"vivendi/backend/internal/model"
)

// The API layer depends on these contracts instead of the concrete services,
// which keeps handlers mockable in tests.

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	FindByToken(ctx context.Context, token string) (*model.Identity, error)
}

type ClientService interface {
	Create(ctx context.Context, name string) (*model.Client, error)
	List(ctx context.Context) ([]*model.Client, error)
	Get(ctx context.Context, id string) (*model.Client, error)
	Update(ctx context.Context, id string, name *string) (*model.Client, error)
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type MeasurementService interface {
	Create(ctx context.Context, input CreateMeasurementInput) (*model.Measurement, error)
	Find(ctx context.Context, identity *model.Identity, query MeasurementQuery) ([]*model.Measurement, error)
}
