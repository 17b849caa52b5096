// Package user implements account workflows: registration, login, and
// profile reads.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Generate(usr *user.User) (token string, expiresIn int64, err error)
}

type UserDTO struct {
	SID       string    `json:"sid"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	Coins     int64     `json:"coins"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	User      *UserDTO `json:"user"`
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"`
}

type Service struct {
	userRepo user.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewService(userRepo user.Repository, hasher PasswordHasher, tokens TokenIssuer, logger logger.Interface) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a reader account. Usernames and emails are unique; the
// check here is advisory, the storage layer's unique indexes are the final
// word.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	if existing, err := s.userRepo.GetByUsername(ctx, input.Username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if existing != nil {
		return nil, errors.NewConflictError("username already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, input.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, errors.NewConflictError("email already registered")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr, err := user.NewUser(input.Username, input.Email, hash)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.userRepo.Create(ctx, usr); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("username or email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("user registered", "user_sid", usr.SID())
	return toDTO(usr), nil
}

// Login verifies credentials and issues an access token. Unknown username
// and wrong password yield the same error.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	usr, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if usr == nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	if err := s.hasher.Verify(input.Password, usr.PasswordHash()); err != nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	token, expiresIn, err := s.tokens.Generate(usr)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Infow("user logged in", "user_sid", usr.SID())
	return &LoginResult{User: toDTO(usr), Token: token, ExpiresIn: expiresIn}, nil
}

// GetProfile returns the account behind an authenticated request.
func (s *Service) GetProfile(ctx context.Context, userID uint) (*UserDTO, error) {
	usr, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if usr == nil {
		return nil, errors.NewNotFoundError("user not found")
	}
	return toDTO(usr), nil
}

// SetRole changes an account's role. Admin-only at the HTTP layer.
func (s *Service) SetRole(ctx context.Context, userSID string, role string) (*UserDTO, error) {
	usr, err := s.userRepo.GetBySID(ctx, userSID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if usr == nil {
		return nil, errors.NewNotFoundError("user not found", userSID)
	}

	parsed := user.ParseRole(role)
	if parsed.String() != role {
		return nil, errors.NewValidationError("invalid role", role)
	}
	if err := usr.SetRole(parsed); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.userRepo.Update(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Infow("user role changed", "user_sid", userSID, "role", role)
	return toDTO(usr), nil
}

func toDTO(usr *user.User) *UserDTO {
	return &UserDTO{
		SID:       usr.SID(),
		Username:  usr.Username(),
		Email:     usr.Email(),
		Role:      usr.Role(),
		Coins:     usr.Coins(),
		CreatedAt: usr.CreatedAt(),
	}
}
