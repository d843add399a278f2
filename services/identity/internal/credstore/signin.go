package credstore

import (
	"context"

	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

// SignInResult is the outcome of a password sign-in attempt.
type SignInResult int

const (
	SignInSuccess SignInResult = iota
	SignInFailed
	SignInLockedOut
	SignInNotAllowed
)

func (r SignInResult) String() string {
	switch r {
	case SignInSuccess:
		return "Success"
	case SignInFailed:
		return "Failed"
	case SignInLockedOut:
		return "LockedOut"
	case SignInNotAllowed:
		return "NotAllowed"
	default:
		return "Unknown"
	}
}

// CheckPasswordSignIn attempts a password sign-in. With
// lockoutOnFailure a bad password increments the failure counter and
// the lockout state is rechecked, so the attempt that crosses the
// threshold reports LockedOut, not Failed. A correct password while
// locked out still fails with LockedOut.
func (s *Store) CheckPasswordSignIn(ctx context.Context, account *models.Account, password string, lockoutOnFailure bool) (SignInResult, error) {
	if s.RequireConfirmedEmail && !account.EmailConfirmed {
		return SignInNotAllowed, nil
	}

	if s.IsLockedOut(account) {
		return SignInLockedOut, nil
	}

	if CheckPassword(account.PasswordHash, password) {
		return SignInSuccess, nil
	}

	if lockoutOnFailure {
		if err := s.AccessFailed(ctx, account); err != nil {
			return SignInFailed, err
		}
		if s.IsLockedOut(account) {
			return SignInLockedOut, nil
		}
	}

	return SignInFailed, nil
}
