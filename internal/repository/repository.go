package repository

import (
	"context"

	"vivendi/backend/internal/model"
)

// These interfaces are the storage contract the services depend on.
// Keeping them here makes it easy to swap database implementations and to
// mock storage in service tests.

type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id string) (*model.Client, error)
	List(ctx context.Context) ([]*model.Client, error)
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	CountByClientID(ctx context.Context, clientID string) (int64, error)
}

// MeasurementFilter narrows a measurement query. Zero values mean "no
// constraint"; the month-index bounds are disabled below zero.
type MeasurementFilter struct {
	ClientID      string
	Year          int
	Month         int
	MinMonthIndex int
	MaxMonthIndex int
	SortAscending bool
}

type MeasurementRepository interface {
	Create(ctx context.Context, m *model.Measurement) error
	Find(ctx context.Context, filter MeasurementFilter) ([]*model.Measurement, error)
}
