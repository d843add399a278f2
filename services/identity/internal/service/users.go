package service

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vyatkin0/micro-services/pkg/identityclient"
	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/tokens"
	"github.com/vyatkin0/micro-services/services/identity/internal/repo"
)

// AttachUser links an account to the caller's tenant. An account may
// belong to at most one tenant at a time.
func (s *UsersService) AttachUser(ctx context.Context, claims *tokens.Claims, req *identityclient.AppUserID) (*identityclient.StatusResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	target, err := s.Repo.FindAccountByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, status.Error(codes.InvalidArgument, "Unable to find user")
		}
		return nil, internalErr(err)
	}

	if target.ID == account.ID {
		return nil, status.Error(codes.InvalidArgument, "Unable to add yourself")
	}

	attached, err := s.Repo.IsAttached(ctx, target.ID)
	if err != nil {
		return nil, internalErr(err)
	}
	if attached {
		return nil, status.Error(codes.InvalidArgument, "User already attached")
	}

	if err := s.Repo.Attach(ctx, account.ID, target.ID); err != nil {
		return nil, internalErr(err)
	}

	logging.FromContext(ctx).Info("user attached", "tenant_id", account.ID, "user_id", target.ID)
	return &identityclient.StatusResponse{Status: "Success"}, nil
}

// DetachUser unlinks an account from the caller's tenant, dropping its
// grants with it. Detaching an account that is not attached succeeds.
func (s *UsersService) DetachUser(ctx context.Context, claims *tokens.Claims, req *identityclient.AppUserID) (*identityclient.StatusResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Detach(ctx, account.ID, req.ID); err != nil {
		return nil, internalErr(err)
	}

	logging.FromContext(ctx).Info("user detached", "tenant_id", account.ID, "user_id", req.ID)
	return &identityclient.StatusResponse{Status: "Success"}, nil
}

// FindUserByName resolves an account by username for the attach flow.
func (s *UsersService) FindUserByName(ctx context.Context, claims *tokens.Claims, req *identityclient.FindUserByNameRequest) (*identityclient.AppUser, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	target, err := s.Repo.FindAccountByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, status.Error(codes.InvalidArgument, "User not found")
		}
		return nil, internalErr(err)
	}

	if target.ID == account.ID {
		return nil, status.Error(codes.InvalidArgument, "Unable to add yourself")
	}

	out := appUserOf(target)
	return &out, nil
}
