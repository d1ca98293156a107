package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mine969/authsessionapi/pkg/password"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&UserModel{}))
	return NewService(db)
}

func TestRegister(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.True(t, password.Verify("secret123", u.PasswordHash))
}

func TestRegisterValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "", "secret123")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = s.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrMissingFields)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	_, err = s.Register(ctx, string(long), "secret123")
	assert.ErrorIs(t, err, ErrUsernameTooLong)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	first, err := s.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "other-password")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// first record is unaffected
	got, err := s.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, password.Verify("secret123", got.PasswordHash))
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
}

func TestAuthenticateFailureIsUnified(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	_, wrongPassword := s.Authenticate(ctx, "alice", "wrong")
	_, unknownUser := s.Authenticate(ctx, "nobody", "anything")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestGetByIDNotFound(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
