package service

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/pkg/tokens"
	"github.com/vyatkin0/micro-services/services/identity/internal/credstore"
	"github.com/vyatkin0/micro-services/services/identity/internal/models"
	"github.com/vyatkin0/micro-services/services/identity/internal/repo"
)

// Deps is the shared wiring of every identity service.
type Deps struct {
	Repo  *repo.GormRepo
	Creds *credstore.Store
	Keys  tokens.Keychain
}

type AccountsService struct{ *Deps }
type ManageService struct{ *Deps }
type RolesService struct{ *Deps }
type UsersService struct{ *Deps }

// CallerAccount resolves the account behind validated claims. A
// subject that no longer resolves is Unauthenticated.
func (d *Deps) CallerAccount(ctx context.Context, claims *tokens.Claims) (*models.Account, error) {
	id, err := claims.AccountID()
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "Unknown user")
	}
	account, err := d.Repo.FindAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.Error(codes.Unauthenticated, "Unknown user")
		}
		return nil, status.Errorf(codes.Internal, "Internal error. %v", err)
	}
	return account, nil
}

func internalErr(err error) error {
	return status.Errorf(codes.Internal, "Internal error. %v", err)
}
