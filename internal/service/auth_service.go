package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"vivendi/backend/internal/apperrors"
	"vivendi/backend/internal/model"
	"vivendi/backend/internal/repository"
)

const tokenTTL = 7 * 24 * time.Hour

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type authService struct {
	users   repository.UserRepository
	clients repository.ClientRepository
	secret  []byte
	now     func() time.Time
}

func NewAuthService(users repository.UserRepository, clients repository.ClientRepository, secret string) AuthService {
	return &authService{
		users:   users,
		clients: clients,
		secret:  []byte(secret),
		now:     time.Now,
	}
}

type tokenClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// Login checks credentials and issues a signed token. Unknown username and
// wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(apperrors.Params{
				Message: "Invalid credentials",
				Code:    apperrors.CodeInvalidCredentials,
			})
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized(apperrors.Params{
			Message: "Invalid credentials",
			Code:    apperrors.CodeInvalidCredentials,
		})
	}

	now := s.now()
	claims := tokenClaims{
		ID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: *user}, nil
}

// FindByToken resolves a bearer token to an identity: verify signature and
// expiry, look up the user, then denormalize the tenant name for
// client-role users.
func (s *authService) FindByToken(ctx context.Context, token string) (*model.Identity, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperrors.Unauthorized(apperrors.Params{
			Message: "Invalid or expired token",
			Code:    apperrors.CodeInvalidToken,
		})
	}

	user, err := s.users.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(apperrors.Params{
				Message: "User not found for the provided token",
				Code:    apperrors.CodeUserNotFound,
			})
		}
		return nil, err
	}

	identity := &model.Identity{User: *user}
	if user.ClientID != nil {
		client, err := s.clients.GetByID(ctx, *user.ClientID)
		switch {
		case err == nil:
			identity.ClientName = client.Name
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	return identity, nil
}
