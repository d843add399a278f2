package credstore

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}))

	return &Store{DB: db}
}

func newTestAccount(t *testing.T, s *Store, password string) *models.Account {
	t.Helper()

	hash, err := HashPassword(password)
	require.NoError(t, err)

	account := &models.Account{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}
	require.NoError(t, s.DB.Create(account).Error)
	return account
}

func TestCheckPasswordSignIn_Success(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s, "secret123")
	ctx := context.Background()

	res, err := s.CheckPasswordSignIn(ctx, account, "secret123", true)
	require.NoError(t, err)
	assert.Equal(t, SignInSuccess, res)
}

func TestCheckPasswordSignIn_FailureIncrementsCounter(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s, "secret123")
	ctx := context.Background()

	res, err := s.CheckPasswordSignIn(ctx, account, "wrong", true)
	require.NoError(t, err)
	assert.Equal(t, SignInFailed, res)
	assert.Equal(t, 1, account.AccessFailedCount)

	var stored models.Account
	require.NoError(t, s.DB.First(&stored, account.ID).Error)
	assert.Equal(t, 1, stored.AccessFailedCount)
}

func TestCheckPasswordSignIn_FifthFailureLocksOut(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s, "secret123")
	ctx := context.Background()

	for i := 0; i < MaxFailedAttempts-1; i++ {
		res, err := s.CheckPasswordSignIn(ctx, account, "wrong", true)
		require.NoError(t, err)
		require.Equal(t, SignInFailed, res)
	}

	// The attempt that crosses the threshold reports LockedOut.
	res, err := s.CheckPasswordSignIn(ctx, account, "wrong", true)
	require.NoError(t, err)
	assert.Equal(t, SignInLockedOut, res)
	require.NotNil(t, account.LockoutEnd)

	// Correct password while locked out still fails.
	res, err = s.CheckPasswordSignIn(ctx, account, "secret123", true)
	require.NoError(t, err)
	assert.Equal(t, SignInLockedOut, res)
}

func TestCheckPasswordSignIn_NoLockoutWhenDisabled(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s, "secret123")
	ctx := context.Background()

	for i := 0; i < MaxFailedAttempts+2; i++ {
		res, err := s.CheckPasswordSignIn(ctx, account, "wrong", false)
		require.NoError(t, err)
		require.Equal(t, SignInFailed, res)
	}
	assert.Zero(t, account.AccessFailedCount)
	assert.Nil(t, account.LockoutEnd)
}

func TestCheckPasswordSignIn_NotAllowedWithoutConfirmedEmail(t *testing.T) {
	s := newTestStore(t)
	s.RequireConfirmedEmail = true
	account := newTestAccount(t, s, "secret123")
	ctx := context.Background()

	res, err := s.CheckPasswordSignIn(ctx, account, "secret123", true)
	require.NoError(t, err)
	assert.Equal(t, SignInNotAllowed, res)
}

func TestResetAccessFailed(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s, "secret123")
	ctx := context.Background()

	_, err := s.CheckPasswordSignIn(ctx, account, "wrong", true)
	require.NoError(t, err)
	require.Equal(t, 1, account.AccessFailedCount)

	require.NoError(t, s.ResetAccessFailed(ctx, account))
	assert.Zero(t, account.AccessFailedCount)

	var stored models.Account
	require.NoError(t, s.DB.First(&stored, account.ID).Error)
	assert.Zero(t, stored.AccessFailedCount)
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ValidatePassword("long-enough"))
	assert.NotEmpty(t, ValidatePassword("abc"))
}

func TestSignInResultString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Success", SignInSuccess.String())
	assert.Equal(t, "LockedOut", SignInLockedOut.String())
	assert.Equal(t, "NotAllowed", SignInNotAllowed.String())
	assert.Equal(t, "Failed", SignInFailed.String())
}
