package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vivendi/backend/internal/apperrors"
	"vivendi/backend/internal/model"
	"vivendi/backend/internal/repository"
)

type clientService struct {
	clients repository.ClientRepository
	users   repository.UserRepository
}

func NewClientService(clients repository.ClientRepository, users repository.UserRepository) ClientService {
	return &clientService{clients: clients, users: users}
}

func (s *clientService) Create(ctx context.Context, name string) (*model.Client, error) {
	now := time.Now().UTC()
	client := &model.Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("could not create client: %w", err)
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context) ([]*model.Client, error) {
	return s.clients.List(ctx)
}

func (s *clientService) Get(ctx context.Context, id string) (*model.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.Params{Message: "Client not found"})
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) Update(ctx context.Context, id string, name *string) (*model.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.Params{
				Message: fmt.Sprintf("Client with id %s not found", id),
				Code:    apperrors.CodeClientNotFound,
			})
		}
		return nil, err
	}

	if name != nil {
		client.Name = strings.TrimSpace(*name)
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete refuses to remove a client that still has users; orphaning
// tenant-scoped accounts would lock them out of everything.
func (s *clientService) Delete(ctx context.Context, id string) error {
	usersCount, err := s.users.CountByClientID(ctx, id)
	if err != nil {
		return err
	}
	if usersCount > 0 {
		return apperrors.BadRequest(apperrors.Params{
			Message: fmt.Sprintf("Cannot delete client with %d associated users", usersCount),
			Code:    apperrors.CodeClientHasUsers,
		})
	}

	if err := s.clients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound(apperrors.Params{
				Message: fmt.Sprintf("Client with id %s not found", id),
				Code:    apperrors.CodeClientNotFound,
			})
		}
		return err
	}
	return nil
}
