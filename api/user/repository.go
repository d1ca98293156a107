package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateUsername is returned when the username is already taken
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUserNotFound is returned when no matching user record exists
	ErrUserNotFound = errors.New("user not found")
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a new user record. Uniqueness is enforced by the database
// constraint, so there is no separate existence check and no race window.
func (r *Repository) Create(ctx context.Context, u *UserModel) error {
	err := r.DB.WithContext(ctx).Create(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*UserModel, error) {
	var u UserModel
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user by username: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*UserModel, error) {
	var u UserModel
	err := r.DB.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	return &u, nil
}
