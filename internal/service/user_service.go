package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vivendi/backend/internal/apperrors"
	"vivendi/backend/internal/model"
	"vivendi/backend/internal/repository"
)

const bcryptCost = 10

// CreateUserInput is the matched data for user creation. ClientID is only
// meaningful for the client role.
type CreateUserInput struct {
	Username string
	Password string
	Role     string
	ClientID *string
}

// UpdateUserInput carries partial updates; nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Password *string
	Role     *string
	ClientID *string
}

type userService struct {
	users   repository.UserRepository
	clients repository.ClientRepository
}

func NewUserService(users repository.UserRepository, clients repository.ClientRepository) UserService {
	return &userService{users: users, clients: clients}
}

// Create hashes the password explicitly here; there are no persistence-side
// lifecycle hooks.
func (s *userService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.BadRequest(apperrors.Params{
			Message: "Username already exists",
			Code:    apperrors.CodeUsernameExists,
		})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var clientID *string
	if input.Role == model.RoleClient {
		if input.ClientID == nil {
			return nil, apperrors.BadRequest(apperrors.Params{
				Message: "clientId is required for client role",
				Code:    apperrors.CodeClientIDRequired,
			})
		}
		if err := s.requireClient(ctx, *input.ClientID); err != nil {
			return nil, err
		}
		clientID = input.ClientID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:        uuid.NewString(),
		Username:  input.Username,
		Password:  string(hash),
		Role:      input.Role,
		ClientID:  clientID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Update(ctx context.Context, id string, input UpdateUserInput) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.Params{
				Message: fmt.Sprintf("User with id %s not found", id),
				Code:    apperrors.CodeUserNotFound,
			})
		}
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		if _, err := s.users.GetByUsername(ctx, *input.Username); err == nil {
			return nil, apperrors.BadRequest(apperrors.Params{
				Message: "Username already exists",
				Code:    apperrors.CodeUsernameExists,
			})
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		user.Username = *input.Username
	}

	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("could not hash password: %w", err)
		}
		user.Password = string(hash)
	}

	newRole := user.Role
	if input.Role != nil {
		newRole = *input.Role
	}
	if newRole == model.RoleClient {
		newClientID := input.ClientID
		if newClientID == nil {
			newClientID = user.ClientID
		}
		if newClientID == nil {
			return nil, apperrors.BadRequest(apperrors.Params{
				Message: "clientId is required for client role",
				Code:    apperrors.CodeClientIDRequired,
			})
		}
		if err := s.requireClient(ctx, *newClientID); err != nil {
			return nil, err
		}
		user.ClientID = newClientID
	} else {
		user.ClientID = nil
	}
	user.Role = newRole

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound(apperrors.Params{
				Message: fmt.Sprintf("User with id %s not found", id),
				Code:    apperrors.CodeUserNotFound,
			})
		}
		return err
	}
	return nil
}

func (s *userService) requireClient(ctx context.Context, clientID string) error {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound(apperrors.Params{
				Message: fmt.Sprintf("Client with id %s not found", clientID),
				Code:    apperrors.CodeClientNotFound,
			})
		}
		return err
	}
	return nil
}
