package service

import (
	"context"
	"slices"
	"strconv"

	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/tokens"
	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

// TokenInfo is a minted access token together with the attributes the
// login response carries.
type TokenInfo struct {
	Signed  *tokens.Signed
	IsAdmin bool
	Tenant  *models.Account
}

// IssueRefreshToken mints a 30-day refresh token and persists its
// revocation record in the same operation.
func (d *Deps) IssueRefreshToken(ctx context.Context, account *models.Account) (*tokens.Signed, error) {
	signed, err := d.Keys.SignRefresh(strconv.FormatUint(uint64(account.ID), 10))
	if err != nil {
		return nil, internalErr(err)
	}

	err = d.Repo.CreateRefreshToken(ctx, account.ID, signed.ID, signed.ValidFrom, signed.ValidTo)
	if err != nil {
		return nil, internalErr(err)
	}

	logging.FromContext(ctx).Info("issued refresh token", "account_id", account.ID, "jti", signed.ID)
	return signed, nil
}

// IssueAccessToken mints a 30-minute access token carrying the
// composed role set and the link to the refresh token that produced
// it. Access tokens are stateless; nothing is persisted.
func (d *Deps) IssueAccessToken(ctx context.Context, account *models.Account, refreshID string) (*TokenInfo, error) {
	roles, err := d.Repo.ComposeAccessRoles(ctx, account.ID)
	if err != nil {
		return nil, internalErr(err)
	}

	signed, err := d.Keys.SignAccess(
		strconv.FormatUint(uint64(account.ID), 10),
		refreshID,
		account.Email,
		roles,
	)
	if err != nil {
		return nil, internalErr(err)
	}

	tenant, err := d.Repo.FirstTenantOf(ctx, account.ID)
	if err != nil {
		return nil, internalErr(err)
	}

	return &TokenInfo{
		Signed:  signed,
		IsAdmin: slices.Contains(roles, "Admin"),
		Tenant:  tenant,
	}, nil
}
