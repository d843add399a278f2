package service

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/pkg/identityclient"
	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/tokens"
	"github.com/vyatkin0/micro-services/services/identity/internal/credstore"
	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

// Login authenticates by name and password and mints the token pair:
// a refresh token first, then an access token linked to it.
func (s *AccountsService) Login(ctx context.Context, req *identityclient.LoginRequest) (*identityclient.LoginInfo, error) {
	l := logging.FromContext(ctx).With("svc", "accounts.login", "name", req.Name)

	account, err := s.Repo.FindAccountByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.Errorf(codes.Unauthenticated, "Unable to load user with name %s", req.Name)
		}
		return nil, internalErr(err)
	}

	result, err := s.Creds.CheckPasswordSignIn(ctx, account, req.Password, true)
	if err != nil {
		return nil, internalErr(err)
	}

	switch result {
	case credstore.SignInSuccess:
		if err := s.Creds.ResetAccessFailed(ctx, account); err != nil {
			return nil, internalErr(err)
		}

		userRoles, err := s.Repo.SystemRoles(ctx, account.ID)
		if err != nil {
			return nil, internalErr(err)
		}
		if !containsAny(userRoles, "User", "Admin") {
			return nil, status.Error(codes.PermissionDenied, "Login is not permitted")
		}

		l.Info("user logged in", "account_id", account.ID)

		refresh, err := s.IssueRefreshToken(ctx, account)
		if err != nil {
			return nil, err
		}

		access, err := s.IssueAccessToken(ctx, account, refresh.ID)
		if err != nil {
			return nil, err
		}

		info := &identityclient.LoginInfo{
			AccessToken:  access.Signed.Token,
			RefreshToken: refresh.Token,
			IsAdmin:      access.IsAdmin,
		}
		if access.Tenant != nil {
			info.Tenant = &identityclient.TenantInfo{
				ID:      access.Tenant.ID,
				Name:    access.Tenant.Username,
				Company: access.Tenant.Company,
			}
		}
		return info, nil

	case credstore.SignInLockedOut:
		l.Warn("account locked out", "account_id", account.ID)
	}

	return nil, status.Error(codes.Unauthenticated, "Unauthenticated")
}

// Register creates the account, seeds the first Admin of a company,
// and on success returns the result of an immediate Login with the
// same credentials.
func (s *AccountsService) Register(ctx context.Context, req *identityclient.RegisterRequest) (*identityclient.LoginInfo, error) {
	l := logging.FromContext(ctx).With("svc", "accounts.register", "name", req.Name)

	if msgs := s.Creds.ValidateNewAccount(ctx, req.Name, req.Email, req.Password); len(msgs) > 0 {
		return nil, status.Error(codes.InvalidArgument, strings.Join(msgs, " "))
	}

	hash, err := credstore.HashPassword(req.Password)
	if err != nil {
		return nil, internalErr(err)
	}

	account := &models.Account{
		Username:     req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
	}
	if err := s.Repo.CreateAccount(ctx, account); err != nil {
		return nil, internalErr(err)
	}

	l.Info("user created a new account with password", "account_id", account.ID)

	// The first registered account of a company becomes its Admin.
	hasAdmin, err := s.Repo.CompanyHasAdmin(ctx, account.Company)
	if err != nil {
		return nil, internalErr(err)
	}
	role := "Admin"
	if hasAdmin {
		role = "User"
	}
	if err := s.Repo.AddToRole(ctx, account.ID, role); err != nil {
		l.Error("assign role failed", "role", role, "error", err)
	}

	return s.Login(ctx, &identityclient.LoginRequest{Name: req.Name, Password: req.Password})
}

// Logout revokes the refresh token the caller's token resolves to:
// its linked refresh id for access tokens, its own id for refresh
// tokens. Revocation is idempotent.
func (s *AccountsService) Logout(ctx context.Context, claims *tokens.Claims) (*identityclient.StatusResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	var refreshID string
	switch claims.TokenType {
	case tokens.TypeAccess:
		refreshID = claims.RefreshID
	case tokens.TypeRefresh:
		refreshID = claims.ID
	}
	if refreshID == "" {
		return nil, status.Error(codes.PermissionDenied, "Wrong token")
	}

	if err := s.Repo.DeleteRefreshToken(ctx, account.ID, refreshID); err != nil {
		return nil, internalErr(err)
	}

	logging.FromContext(ctx).Info("user logged out", "account_id", account.ID, "jti", refreshID)
	return &identityclient.StatusResponse{Status: "Success"}, nil
}

// List returns the accounts attached to the caller acting as tenant.
func (s *AccountsService) List(ctx context.Context, claims *tokens.Claims) (*identityclient.ListResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	users, err := s.Repo.AttachedUsersOf(ctx, account.ID)
	if err != nil {
		return nil, internalErr(err)
	}

	resp := &identityclient.ListResponse{AppUsers: make([]identityclient.AppUser, 0, len(users))}
	for _, u := range users {
		resp.AppUsers = append(resp.AppUsers, appUserOf(&u))
	}
	return resp, nil
}

func appUserOf(a *models.Account) identityclient.AppUser {
	return identityclient.AppUser{
		ID:        a.ID,
		Name:      a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
	}
}

func containsAny(have []string, want ...string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
