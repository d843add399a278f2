package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/pkg/identityclient"
	"github.com/vyatkin0/micro-services/pkg/tokens"
	"github.com/vyatkin0/micro-services/services/identity/internal/credstore"
	"github.com/vyatkin0/micro-services/services/identity/internal/models"
	"github.com/vyatkin0/micro-services/services/identity/internal/repo"
)

func newTestDeps(t *testing.T) *Deps {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.SeedRoles(context.Background()))

	return &Deps{
		Repo:  r,
		Creds: &credstore.Store{DB: db},
		Keys: tokens.Keychain{
			Key:      []byte("test-signing-key"),
			Issuer:   "identity",
			Audience: "micro-services",
		},
	}
}

func registerUser(t *testing.T, deps *Deps, name, company string) *identityclient.LoginInfo {
	t.Helper()

	accounts := &AccountsService{Deps: deps}
	info, err := accounts.Register(context.Background(), &identityclient.RegisterRequest{
		Name:     name,
		Email:    name + "@example.com",
		Password: "Secret123",
		Company:  company,
	})
	require.NoError(t, err)
	return info
}

func claimsOf(t *testing.T, deps *Deps, token string) *tokens.Claims {
	t.Helper()

	claims, err := deps.Keys.Parse(token)
	require.NoError(t, err)
	return claims
}

func accountByName(t *testing.T, deps *Deps, name string) *models.Account {
	t.Helper()

	account, err := deps.Repo.FindAccountByName(context.Background(), name)
	require.NoError(t, err)
	return account
}

func TestRegisterFirstAccountOfCompanyIsAdmin(t *testing.T) {
	deps := newTestDeps(t)

	first := registerUser(t, deps, "alice", "acme")
	assert.True(t, first.IsAdmin)

	second := registerUser(t, deps, "bob", "acme")
	assert.False(t, second.IsAdmin)

	other := registerUser(t, deps, "carol", "globex")
	assert.True(t, other.IsAdmin)
}

func TestRegisterAggregatesValidationMessages(t *testing.T) {
	deps := newTestDeps(t)
	registerUser(t, deps, "alice", "acme")

	accounts := &AccountsService{Deps: deps}
	_, err := accounts.Register(context.Background(), &identityclient.RegisterRequest{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "abc",
	})
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Contains(t, st.Message(), "alice")
	assert.Contains(t, st.Message(), "at least")
}

func TestLoginUnknownName(t *testing.T) {
	deps := newTestDeps(t)

	accounts := &AccountsService{Deps: deps}
	_, err := accounts.Login(context.Background(), &identityclient.LoginRequest{Name: "ghost", Password: "x"})
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "Unable to load user with name ghost", st.Message())
}

func TestLoginRolelessAccountIsNotPermitted(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	hash, err := credstore.HashPassword("Secret123")
	require.NoError(t, err)
	account := &models.Account{Username: "norole", Email: "norole@example.com", PasswordHash: hash}
	require.NoError(t, deps.Repo.CreateAccount(ctx, account))

	accounts := &AccountsService{Deps: deps}
	_, err = accounts.Login(ctx, &identityclient.LoginRequest{Name: "norole", Password: "Secret123"})
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.PermissionDenied, st.Code())
	assert.Equal(t, "Login is not permitted", st.Message())
}

func TestLoginWrongPasswordThenLockout(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	registerUser(t, deps, "alice", "acme")

	accounts := &AccountsService{Deps: deps}
	for i := 0; i < credstore.MaxFailedAttempts; i++ {
		_, err := accounts.Login(ctx, &identityclient.LoginRequest{Name: "alice", Password: "wrong"})
		require.Error(t, err)
		require.Equal(t, codes.Unauthenticated, status.Code(err))
	}

	// Locked out: the correct password no longer works.
	_, err := accounts.Login(ctx, &identityclient.LoginRequest{Name: "alice", Password: "Secret123"})
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestLoginLinksAccessTokenToRefreshToken(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	info := registerUser(t, deps, "alice", "acme")

	access := claimsOf(t, deps, info.AccessToken)
	refresh := claimsOf(t, deps, info.RefreshToken)

	assert.Equal(t, tokens.TypeAccess, access.TokenType)
	assert.Equal(t, tokens.TypeRefresh, refresh.TokenType)
	assert.Equal(t, refresh.ID, access.RefreshID)
	assert.Contains(t, access.Roles, "Admin")
	assert.Equal(t, "alice@example.com", access.Email)

	account := accountByName(t, deps, "alice")
	exists, err := deps.Repo.RefreshTokenExists(ctx, account.ID, refresh.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLogoutRevokesRefreshTokenIdempotently(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	info := registerUser(t, deps, "alice", "acme")

	accounts := &AccountsService{Deps: deps}
	access := claimsOf(t, deps, info.AccessToken)
	refresh := claimsOf(t, deps, info.RefreshToken)
	account := accountByName(t, deps, "alice")

	res, err := accounts.Logout(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "Success", res.Status)

	exists, err := deps.Repo.RefreshTokenExists(ctx, account.ID, refresh.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// Revoking an already revoked token still succeeds.
	res, err = accounts.Logout(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, "Success", res.Status)
}

func TestLogoutRejectsTokenWithoutRefreshLink(t *testing.T) {
	deps := newTestDeps(t)
	registerUser(t, deps, "alice", "acme")
	account := accountByName(t, deps, "alice")

	claims := &tokens.Claims{TokenType: "session"}
	claims.Subject = fmt.Sprint(account.ID)

	accounts := &AccountsService{Deps: deps}
	_, err := accounts.Logout(context.Background(), claims)
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.PermissionDenied, st.Code())
	assert.Equal(t, "Wrong token", st.Message())
}

func basePrivileges(t *testing.T, deps *Deps, names ...string) []identityclient.Privilege {
	t.Helper()

	roles := &RolesService{Deps: deps}
	list, err := roles.PrivilegesList(context.Background())
	require.NoError(t, err)

	var out []identityclient.Privilege
	for _, p := range list.Privileges {
		for _, name := range names {
			if p.Name == name {
				out = append(out, p)
			}
		}
	}
	require.Len(t, out, len(names))
	return out
}

// tenantWithUser registers a tenant and a user, attaches the user, and
// creates one micro role owned by the tenant.
func tenantWithUser(t *testing.T, deps *Deps) (tenant, user *models.Account, tenantClaims *tokens.Claims, role *identityclient.Role) {
	t.Helper()
	ctx := context.Background()

	tenantInfo := registerUser(t, deps, "tenant", "acme")
	registerUser(t, deps, "worker", "acme")
	tenantClaims = claimsOf(t, deps, tenantInfo.AccessToken)
	tenant = accountByName(t, deps, "tenant")
	user = accountByName(t, deps, "worker")

	users := &UsersService{Deps: deps}
	_, err := users.AttachUser(ctx, tenantClaims, &identityclient.AppUserID{ID: user.ID})
	require.NoError(t, err)

	roles := &RolesService{Deps: deps}
	role, err = roles.RoleCreate(ctx, tenantClaims, &identityclient.RoleCreateRequest{
		Name:       "order-clerk",
		Privileges: basePrivileges(t, deps, "GetOrder", "CreateOrder"),
	})
	require.NoError(t, err)
	require.Len(t, role.Privileges, 2)

	return tenant, user, tenantClaims, role
}

func TestAssignUserRolesUnattachedUser(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	tenantInfo := registerUser(t, deps, "tenant", "acme")
	registerUser(t, deps, "stranger", "globex")
	tenantClaims := claimsOf(t, deps, tenantInfo.AccessToken)
	stranger := accountByName(t, deps, "stranger")

	roles := &RolesService{Deps: deps}
	_, err := roles.AssignUserRoles(ctx, tenantClaims, &identityclient.UserRoleRequest{
		UserID:  stranger.ID,
		RoleIDs: []uint{1},
	})
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "Wrong tenant", st.Message())
}

func TestAssignUserRolesForeignRoleLeavesGrantsUntouched(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	_, user, tenantClaims, role := tenantWithUser(t, deps)

	roles := &RolesService{Deps: deps}
	granted, err := roles.AssignUserRoles(ctx, tenantClaims, &identityclient.UserRoleRequest{
		UserID:  user.ID,
		RoleIDs: []uint{role.ID},
	})
	require.NoError(t, err)
	require.Len(t, granted.Roles, 1)

	// A micro role owned by another account must be rejected without
	// mutating the existing grants.
	otherInfo := registerUser(t, deps, "other", "globex")
	otherClaims := claimsOf(t, deps, otherInfo.AccessToken)
	foreign, err := roles.RoleCreate(ctx, otherClaims, &identityclient.RoleCreateRequest{
		Name:       "foreign",
		Privileges: basePrivileges(t, deps, "GetOrder"),
	})
	require.NoError(t, err)

	_, err = roles.AssignUserRoles(ctx, tenantClaims, &identityclient.UserRoleRequest{
		UserID:  user.ID,
		RoleIDs: []uint{foreign.ID},
	})
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "Wrong roles", st.Message())

	after, err := roles.GetUserRoles(ctx, tenantClaims, &identityclient.UserRolesRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, after.Roles, 1)
	assert.Equal(t, role.ID, after.Roles[0].ID)
}

func TestAssignUserRolesReplacesGrantSet(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	_, user, tenantClaims, role := tenantWithUser(t, deps)

	roles := &RolesService{Deps: deps}
	second, err := roles.RoleCreate(ctx, tenantClaims, &identityclient.RoleCreateRequest{
		Name:       "order-viewer",
		Privileges: basePrivileges(t, deps, "GetOrder"),
	})
	require.NoError(t, err)

	_, err = roles.AssignUserRoles(ctx, tenantClaims, &identityclient.UserRoleRequest{
		UserID:  user.ID,
		RoleIDs: []uint{role.ID, second.ID},
	})
	require.NoError(t, err)

	// Omitting an id removes the grant: replace, not merge.
	after, err := roles.AssignUserRoles(ctx, tenantClaims, &identityclient.UserRoleRequest{
		UserID:  user.ID,
		RoleIDs: []uint{second.ID},
	})
	require.NoError(t, err)
	require.Len(t, after.Roles, 1)
	assert.Equal(t, second.ID, after.Roles[0].ID)
}

func TestAssignUserRolesIgnoresDuplicateIDs(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	_, user, tenantClaims, role := tenantWithUser(t, deps)

	roles := &RolesService{Deps: deps}
	granted, err := roles.AssignUserRoles(ctx, tenantClaims, &identityclient.UserRoleRequest{
		UserID:  user.ID,
		RoleIDs: []uint{role.ID, role.ID, role.ID},
	})
	require.NoError(t, err)
	require.Len(t, granted.Roles, 1)
	assert.Equal(t, role.ID, granted.Roles[0].ID)
}

func TestComposedAccessRolesCarryTenantScopes(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	tenant, user, tenantClaims, role := tenantWithUser(t, deps)

	roles := &RolesService{Deps: deps}
	_, err := roles.AssignUserRoles(ctx, tenantClaims, &identityclient.UserRoleRequest{
		UserID:  user.ID,
		RoleIDs: []uint{role.ID},
	})
	require.NoError(t, err)

	composed, err := deps.Repo.ComposeAccessRoles(ctx, user.ID)
	require.NoError(t, err)

	assert.Contains(t, composed, "User")
	assert.Contains(t, composed, tokens.TenantRole(tenant.ID, "GetOrder"))
	assert.Contains(t, composed, tokens.TenantRole(tenant.ID, "CreateOrder"))
}

func TestDetachCascadesGrants(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	_, user, tenantClaims, role := tenantWithUser(t, deps)

	roles := &RolesService{Deps: deps}
	_, err := roles.AssignUserRoles(ctx, tenantClaims, &identityclient.UserRoleRequest{
		UserID:  user.ID,
		RoleIDs: []uint{role.ID},
	})
	require.NoError(t, err)

	users := &UsersService{Deps: deps}
	res, err := users.DetachUser(ctx, tenantClaims, &identityclient.AppUserID{ID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "Success", res.Status)

	grouped, err := roles.GetUsersRoles(ctx, tenantClaims, &identityclient.UsersRolesRequest{UserIDs: []uint{user.ID}})
	require.NoError(t, err)
	assert.Empty(t, grouped.UserRoles)

	// Detaching again is a no-op.
	_, err = users.DetachUser(ctx, tenantClaims, &identityclient.AppUserID{ID: user.ID})
	require.NoError(t, err)
}

func TestAttachUserRejectsSelfAndDoubleAttach(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	tenantInfo := registerUser(t, deps, "tenant", "acme")
	registerUser(t, deps, "worker", "acme")
	otherInfo := registerUser(t, deps, "other", "globex")
	tenantClaims := claimsOf(t, deps, tenantInfo.AccessToken)
	otherClaims := claimsOf(t, deps, otherInfo.AccessToken)
	tenant := accountByName(t, deps, "tenant")
	worker := accountByName(t, deps, "worker")

	users := &UsersService{Deps: deps}

	_, err := users.AttachUser(ctx, tenantClaims, &identityclient.AppUserID{ID: tenant.ID})
	require.Error(t, err)
	assert.Equal(t, "Unable to add yourself", status.Convert(err).Message())

	_, err = users.AttachUser(ctx, tenantClaims, &identityclient.AppUserID{ID: worker.ID})
	require.NoError(t, err)

	// One tenant per account: a second tenant cannot attach the same
	// user.
	_, err = users.AttachUser(ctx, otherClaims, &identityclient.AppUserID{ID: worker.ID})
	require.Error(t, err)

	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "User already attached", st.Message())
}

func TestFindUserByName(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	tenantInfo := registerUser(t, deps, "tenant", "acme")
	registerUser(t, deps, "worker", "acme")
	tenantClaims := claimsOf(t, deps, tenantInfo.AccessToken)
	worker := accountByName(t, deps, "worker")

	users := &UsersService{Deps: deps}

	found, err := users.FindUserByName(ctx, tenantClaims, &identityclient.FindUserByNameRequest{Name: "worker"})
	require.NoError(t, err)
	assert.Equal(t, worker.ID, found.ID)

	_, err = users.FindUserByName(ctx, tenantClaims, &identityclient.FindUserByNameRequest{Name: "ghost"})
	require.Error(t, err)
	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "User not found", st.Message())

	_, err = users.FindUserByName(ctx, tenantClaims, &identityclient.FindUserByNameRequest{Name: "tenant"})
	require.Error(t, err)
	assert.Equal(t, "Unable to add yourself", status.Convert(err).Message())
}

func TestRoleEditAndRemove(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	_, _, tenantClaims, role := tenantWithUser(t, deps)

	roles := &RolesService{Deps: deps}

	role.Name = "renamed"
	role.Privileges = basePrivileges(t, deps, "GetOrder")
	edited, err := roles.RoleEdit(ctx, tenantClaims, role)
	require.NoError(t, err)
	assert.Equal(t, "renamed", edited.Name)
	require.Len(t, edited.Privileges, 1)
	assert.Equal(t, "GetOrder", edited.Privileges[0].Name)

	_, err = roles.RoleRemove(ctx, tenantClaims, &identityclient.RoleRequest{RoleID: role.ID})
	require.NoError(t, err)

	_, err = roles.RoleInfo(ctx, tenantClaims, &identityclient.RoleRequest{RoleID: role.ID})
	require.Error(t, err)
	assert.Equal(t, "Role not found", status.Convert(err).Message())
}

func TestGetUserRolesRequiresAdminForOthers(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	registerUser(t, deps, "admin", "acme")
	workerInfo := registerUser(t, deps, "worker", "acme")
	workerClaims := claimsOf(t, deps, workerInfo.AccessToken)
	admin := accountByName(t, deps, "admin")
	worker := accountByName(t, deps, "worker")

	roles := &RolesService{Deps: deps}

	_, err := roles.GetUserRoles(ctx, workerClaims, &identityclient.UserRolesRequest{UserID: admin.ID})
	require.Error(t, err)
	st := status.Convert(err)
	assert.Equal(t, codes.PermissionDenied, st.Code())
	assert.Equal(t, "Permission denied", st.Message())

	res, err := roles.GetUserRoles(ctx, workerClaims, &identityclient.UserRolesRequest{UserID: worker.ID})
	require.NoError(t, err)
	assert.Empty(t, res.Roles)
}

func TestManageUpdateTrimsAndRejectsEmpty(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	info := registerUser(t, deps, "alice", "acme")
	claims := claimsOf(t, deps, info.AccessToken)

	manage := &ManageService{Deps: deps}

	first := " Alice "
	updated, err := manage.Update(ctx, claims, &identityclient.UpdateRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)

	empty := "   "
	_, err = manage.Update(ctx, claims, &identityclient.UpdateRequest{FirstName: &empty})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	info := registerUser(t, deps, "alice", "acme")
	claims := claimsOf(t, deps, info.AccessToken)

	manage := &ManageService{Deps: deps}

	_, err := manage.ChangePassword(ctx, claims, &identityclient.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "NewSecret123",
	})
	require.Error(t, err)

	res, err := manage.ChangePassword(ctx, claims, &identityclient.ChangePasswordRequest{
		CurrentPassword: "Secret123",
		NewPassword:     "NewSecret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Success", res.Status)

	accounts := &AccountsService{Deps: deps}
	_, err = accounts.Login(ctx, &identityclient.LoginRequest{Name: "alice", Password: "NewSecret123"})
	require.NoError(t, err)
}

func TestGetTenantsListsAttachments(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()
	tenant, user, _, _ := tenantWithUser(t, deps)

	userClaims := &tokens.Claims{TokenType: tokens.TypeAccess}
	userClaims.Subject = fmt.Sprint(user.ID)

	manage := &ManageService{Deps: deps}
	res, err := manage.GetTenants(ctx, userClaims)
	require.NoError(t, err)
	require.Len(t, res.Tenants, 1)
	assert.Equal(t, tenant.ID, res.Tenants[0].ID)
}
