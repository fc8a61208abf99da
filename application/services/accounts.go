package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hivemind/application/ports"
	"hivemind/domain/user"
	"hivemind/pkg/errors"
)

// AccountService registers and authenticates users. Passwords are stored as
// bcrypt hashes only.
type AccountService struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(users ports.UserRepository, logger *zap.Logger) *AccountService {
	return &AccountService{users: users, logger: logger}
}

// Register creates a new account. Usernames are unique; a taken name is a
// conflict, not an internal failure.
func (s *AccountService) Register(ctx context.Context, username, password string) (*user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.NewValidationError("username is required")
	}
	if len(password) < 8 {
		return nil, errors.NewValidationError("password must be at least 8 characters")
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewConflictError("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("hash password").WithCause(err)
	}

	account, err := s.users.Create(ctx, &user.User{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("userID", account.ID))
	return account, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	account, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	return account, nil
}
