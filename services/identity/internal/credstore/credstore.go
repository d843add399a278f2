// Package credstore owns password hashes, the password policy and the
// lockout counters of accounts.
package credstore

import (
	"context"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

const (
	// MaxFailedAttempts failures inside the lockout window lock the
	// account out.
	MaxFailedAttempts = 5
	LockoutWindow     = 5 * time.Minute

	MinPasswordLength = 6
)

type Store struct {
	DB *gorm.DB

	// RequireConfirmedEmail makes sign-in of unconfirmed accounts
	// NotAllowed. Off by default.
	RequireConfirmedEmail bool
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword applies the password policy and returns every
// violation, so callers can aggregate them into one message.
func ValidatePassword(password string) []string {
	var msgs []string
	if len(password) < MinPasswordLength {
		msgs = append(msgs, "Passwords must be at least 6 characters.")
	}
	var hasDigit, hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	if !hasDigit {
		msgs = append(msgs, "Passwords must have at least one digit ('0'-'9').")
	}
	if !hasUpper {
		msgs = append(msgs, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if !hasLower {
		msgs = append(msgs, "Passwords must have at least one lowercase ('a'-'z').")
	}
	return msgs
}

// ValidateNewAccount checks account attributes and uniqueness, again
// returning every violation.
func (s *Store) ValidateNewAccount(ctx context.Context, username, email, password string) []string {
	var msgs []string
	if strings.TrimSpace(username) == "" {
		msgs = append(msgs, "User name must not be empty.")
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		msgs = append(msgs, "Email is invalid.")
	}
	msgs = append(msgs, ValidatePassword(password)...)

	var count int64
	if username != "" {
		s.DB.WithContext(ctx).Model(&models.Account{}).Where("username = ?", username).Count(&count)
		if count > 0 {
			msgs = append(msgs, "User name '"+username+"' is already taken.")
		}
	}
	if email != "" {
		s.DB.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			msgs = append(msgs, "Email '"+email+"' is already taken.")
		}
	}
	return msgs
}

func (s *Store) IsLockedOut(account *models.Account) bool {
	return account.LockoutEnd != nil && account.LockoutEnd.After(time.Now().UTC())
}

// AccessFailed increments the failure counter and starts the lockout
// window when the threshold is reached.
func (s *Store) AccessFailed(ctx context.Context, account *models.Account) error {
	account.AccessFailedCount++
	if account.AccessFailedCount >= MaxFailedAttempts {
		end := time.Now().UTC().Add(LockoutWindow)
		account.LockoutEnd = &end
		account.AccessFailedCount = 0
	}
	return s.DB.WithContext(ctx).Model(account).
		Select("access_failed_count", "lockout_end").
		Updates(map[string]any{
			"access_failed_count": account.AccessFailedCount,
			"lockout_end":         account.LockoutEnd,
		}).Error
}

func (s *Store) ResetAccessFailed(ctx context.Context, account *models.Account) error {
	if account.AccessFailedCount == 0 {
		return nil
	}
	account.AccessFailedCount = 0
	return s.DB.WithContext(ctx).Model(account).
		Update("access_failed_count", 0).Error
}

// SetPassword rehashes and stores a new password.
func (s *Store) SetPassword(ctx context.Context, account *models.Account, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	return s.DB.WithContext(ctx).Model(account).
		Update("password_hash", hash).Error
}

// SetEmail updates the account email after a uniqueness check; the
// returned messages are policy violations, not storage errors.
func (s *Store) SetEmail(ctx context.Context, account *models.Account, email string) ([]string, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Account{}).
		Where("email = ? AND id <> ?", email, account.ID).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return []string{"Email '" + email + "' is already taken."}, nil
	}
	account.Email = email
	return nil, s.DB.WithContext(ctx).Model(account).Update("email", email).Error
}
