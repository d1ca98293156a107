// Package user implements the credential store: user records, registration
// and password verification.
package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mine969/authsessionapi/pkg/password"
)

const maxUsernameLen = 50

var (
	// ErrMissingFields is returned when username or password is empty
	ErrMissingFields = errors.New("username and password are required")
	// ErrUsernameTooLong is returned when the username exceeds the column limit
	ErrUsernameTooLong = errors.New("username must be at most 50 characters")
	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords, so the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Service struct {
	repo *Repository
}

func NewService(db *gorm.DB) *Service {
	return &Service{repo: NewRepository(db)}
}

// Register validates the input, hashes the password and creates the user.
// It does not establish a session; the caller redirects to login.
func (s *Service) Register(ctx context.Context, username, plainPassword string) (*UserModel, error) {
	if username == "" || plainPassword == "" {
		return nil, ErrMissingFields
	}
	if len(username) > maxUsernameLen {
		return nil, ErrUsernameTooLong
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	u := &UserModel{Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies the credentials and returns the user on success.
// Unknown username and wrong password both return ErrInvalidCredentials.
// When the user is absent a dummy bcrypt comparison still runs, so response
// time does not reveal whether the username exists.
func (s *Service) Authenticate(ctx context.Context, username, plainPassword string) (*UserModel, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			password.VerifyDummy(plainPassword)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plainPassword, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID resolves a user id to its record, used when mapping an active
// session back to a user.
func (s *Service) GetByID(ctx context.Context, id uint) (*UserModel, error) {
	return s.repo.GetByID(ctx, id)
}

// Count returns the number of registered users.
func (s *Service) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.repo.DB.WithContext(ctx).Model(&UserModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
