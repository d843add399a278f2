package service

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vyatkin0/micro-services/pkg/identityclient"
	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/tokens"
	"github.com/vyatkin0/micro-services/services/identity/internal/credstore"
)

func (s *ManageService) Info(ctx context.Context, claims *tokens.Claims) (*identityclient.AppUser, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}
	user := appUserOf(account)
	return &user, nil
}

// Update mutates the fields present in the request. Present fields are
// trimmed and must not end up empty. A caller holding Admin may update
// another account; everyone else only their own.
func (s *ManageService) Update(ctx context.Context, claims *tokens.Claims, req *identityclient.UpdateRequest) (*identityclient.AppUser, error) {
	caller, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	target := caller
	if req.ID != 0 && req.ID != caller.ID {
		if !claims.HasAnyRole("Admin") {
			return nil, status.Errorf(codes.PermissionDenied, "Unable to update user with Id %d", req.ID)
		}
		target, err = s.Repo.FindAccountByID(ctx, req.ID)
		if err != nil {
			return nil, status.Errorf(codes.PermissionDenied, "Unable to update user with Id %d", req.ID)
		}
	}

	updated := false

	if req.Email != nil {
		value := strings.TrimSpace(*req.Email)
		if value == "" {
			return nil, status.Error(codes.InvalidArgument, "Email must not be empty")
		}
		if target.Email != value {
			msgs, err := s.Creds.SetEmail(ctx, target, value)
			if err != nil {
				return nil, internalErr(err)
			}
			if len(msgs) > 0 {
				return nil, status.Error(codes.InvalidArgument, strings.Join(msgs, " "))
			}
		}
	}

	if req.Name != nil {
		value := strings.TrimSpace(*req.Name)
		if value == "" {
			return nil, status.Error(codes.InvalidArgument, "Name must not be empty")
		}
		if target.Username != value {
			target.Username = value
			updated = true
		}
	}

	if req.FirstName != nil {
		value := strings.TrimSpace(*req.FirstName)
		if value == "" {
			return nil, status.Error(codes.InvalidArgument, "First name must not be empty")
		}
		if target.FirstName != value {
			target.FirstName = value
			updated = true
		}
	}

	if req.LastName != nil {
		value := strings.TrimSpace(*req.LastName)
		if value == "" {
			return nil, status.Error(codes.InvalidArgument, "Last name must not be empty")
		}
		if target.LastName != value {
			target.LastName = value
			updated = true
		}
	}

	if req.Company != nil {
		value := strings.TrimSpace(*req.Company)
		if value == "" {
			return nil, status.Error(codes.InvalidArgument, "Company must not be empty")
		}
		if target.Company != value {
			target.Company = value
			updated = true
		}
	}

	if updated {
		if err := s.Repo.UpdateAccount(ctx, target); err != nil {
			return nil, status.Errorf(codes.Internal, "Unexpected error occurred while updating user with Id '%d'.", target.ID)
		}
	}

	user := appUserOf(target)
	return &user, nil
}

// ChangePassword verifies the current password and applies the
// password policy before storing the new hash.
func (s *ManageService) ChangePassword(ctx context.Context, claims *tokens.Claims, req *identityclient.ChangePasswordRequest) (*identityclient.StatusResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	var msgs []string
	if !credstore.CheckPassword(account.PasswordHash, req.CurrentPassword) {
		msgs = append(msgs, "Incorrect password.")
	}
	msgs = append(msgs, credstore.ValidatePassword(req.NewPassword)...)
	if len(msgs) > 0 {
		return nil, status.Errorf(codes.Internal, "Unable to change password. %s", strings.Join(msgs, " "))
	}

	if err := s.Creds.SetPassword(ctx, account, req.NewPassword); err != nil {
		return nil, internalErr(err)
	}

	logging.FromContext(ctx).Info("password changed", "account_id", account.ID)
	return &identityclient.StatusResponse{Status: "Success"}, nil
}

// GetTenants lists the distinct tenants the caller is attached to.
func (s *ManageService) GetTenants(ctx context.Context, claims *tokens.Claims) (*identityclient.TenantsResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	tenants, err := s.Repo.TenantsOf(ctx, account.ID)
	if err != nil {
		return nil, internalErr(err)
	}

	resp := &identityclient.TenantsResponse{Tenants: make([]identityclient.Tenant, 0, len(tenants))}
	for _, t := range tenants {
		resp.Tenants = append(resp.Tenants, identityclient.Tenant{ID: t.ID, Name: t.Username})
	}
	return resp, nil
}
