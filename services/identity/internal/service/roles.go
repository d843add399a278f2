package service

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/pkg/identityclient"
	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/tokens"
	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

// RolesList returns the micro roles owned by the caller, privileges
// included.
func (s *RolesService) RolesList(ctx context.Context, claims *tokens.Claims) (*identityclient.UserRolesResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	roles, err := s.Repo.MicroRolesOf(ctx, account.ID)
	if err != nil {
		return nil, internalErr(err)
	}

	resp := &identityclient.UserRolesResponse{UserID: account.ID, Roles: make([]identityclient.Role, 0, len(roles))}
	for i := range roles {
		resp.Roles = append(resp.Roles, roleOf(&roles[i]))
	}
	return resp, nil
}

// PrivilegesList returns the immutable base role catalog.
func (s *RolesService) PrivilegesList(ctx context.Context) (*identityclient.PrivilegesResponse, error) {
	roles, err := s.Repo.BaseRoles(ctx)
	if err != nil {
		return nil, internalErr(err)
	}

	resp := &identityclient.PrivilegesResponse{Privileges: make([]identityclient.Privilege, 0, len(roles))}
	for _, r := range roles {
		resp.Privileges = append(resp.Privileges, identityclient.Privilege{ID: r.ID, Name: r.Name})
	}
	return resp, nil
}

// AssignUserRoles replaces the full grant set of an attached account.
// Every micro role must be owned by the caller; the swap is one
// transaction so a failure leaves the previous grants untouched.
func (s *RolesService) AssignUserRoles(ctx context.Context, claims *tokens.Claims, req *identityclient.UserRoleRequest) (*identityclient.UserRolesResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	link, err := s.tenantLink(ctx, account.ID, req.UserID)
	if err != nil {
		return nil, err
	}

	ids := dedupIDs(req.RoleIDs)
	if err := s.requireOwnedRoles(ctx, account.ID, ids); err != nil {
		return nil, err
	}

	if err := s.Repo.ReplaceGrants(ctx, link.ID, ids); err != nil {
		return nil, internalErr(err)
	}

	logging.FromContext(ctx).Info("grants replaced", "tenant_id", account.ID, "user_id", req.UserID, "roles", len(ids))
	return s.userTenantRoles(ctx, link, req.UserID)
}

// RemoveUserRoles deletes only the listed grants of an attached
// account.
func (s *RolesService) RemoveUserRoles(ctx context.Context, claims *tokens.Claims, req *identityclient.UserRoleRequest) (*identityclient.UserRolesResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	link, err := s.tenantLink(ctx, account.ID, req.UserID)
	if err != nil {
		return nil, err
	}

	ids := dedupIDs(req.RoleIDs)
	if err := s.requireOwnedRoles(ctx, account.ID, ids); err != nil {
		return nil, err
	}

	if err := s.Repo.RemoveGrants(ctx, link.ID, ids); err != nil {
		return nil, internalErr(err)
	}

	return s.userTenantRoles(ctx, link, req.UserID)
}

// GetUserRoles lists the micro roles granted to one account by any
// tenant. Non-admins may only query themselves.
func (s *RolesService) GetUserRoles(ctx context.Context, claims *tokens.Claims, req *identityclient.UserRolesRequest) (*identityclient.UserRolesResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	if req.UserID != account.ID && !claims.HasAnyRole("Admin") {
		return nil, status.Error(codes.PermissionDenied, "Permission denied")
	}

	grants, err := s.Repo.GrantsToUser(ctx, req.UserID)
	if err != nil {
		return nil, internalErr(err)
	}

	resp := &identityclient.UserRolesResponse{UserID: req.UserID, Roles: make([]identityclient.Role, 0, len(grants))}
	for _, g := range grants {
		resp.Roles = append(resp.Roles, identityclient.Role{
			ID:     g.MicroRole.ID,
			UserID: g.MicroRole.UserID,
			Name:   g.MicroRole.Name,
		})
	}
	return resp, nil
}

// GetUsersRoles groups the caller-as-tenant's grants by attached
// account.
func (s *RolesService) GetUsersRoles(ctx context.Context, claims *tokens.Claims, req *identityclient.UsersRolesRequest) (*identityclient.UsersRolesResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	grants, err := s.Repo.GrantsOfUsers(ctx, account.ID, req.UserIDs)
	if err != nil {
		return nil, internalErr(err)
	}

	byUser := make(map[uint]*identityclient.UserRolesResponse)
	order := make([]uint, 0)
	for _, g := range grants {
		entry, ok := byUser[g.TenantUser.UserID]
		if !ok {
			entry = &identityclient.UserRolesResponse{UserID: g.TenantUser.UserID}
			byUser[g.TenantUser.UserID] = entry
			order = append(order, g.TenantUser.UserID)
		}
		entry.Roles = append(entry.Roles, identityclient.Role{
			ID:     g.MicroRole.ID,
			UserID: g.MicroRole.UserID,
			Name:   g.MicroRole.Name,
		})
	}

	resp := &identityclient.UsersRolesResponse{UserRoles: make([]identityclient.UserRolesResponse, 0, len(order))}
	for _, id := range order {
		resp.UserRoles = append(resp.UserRoles, *byUser[id])
	}
	return resp, nil
}

// GetRoleUsers lists the membership links of the caller's tenant that
// hold the given micro role.
func (s *RolesService) GetRoleUsers(ctx context.Context, claims *tokens.Claims, req *identityclient.RoleRequest) (*identityclient.RoleUsersResponse, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	ids, err := s.Repo.TenantUsersGranted(ctx, account.ID, req.RoleID)
	if err != nil {
		return nil, internalErr(err)
	}
	return &identityclient.RoleUsersResponse{Users: ids}, nil
}

// RoleCreate adds a micro role owned by the caller. Every privilege
// must reference a catalog role.
func (s *RolesService) RoleCreate(ctx context.Context, claims *tokens.Claims, req *identityclient.RoleCreateRequest) (*identityclient.Role, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	roleIDs := privilegeIDs(req.Privileges)
	ok, err := s.Repo.BaseRolesExist(ctx, roleIDs)
	if err != nil {
		return nil, internalErr(err)
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "Wrong roles")
	}

	role := &models.MicroRole{UserID: account.ID, Name: req.Name}
	for _, id := range roleIDs {
		role.MicroRoleRoles = append(role.MicroRoleRoles, models.MicroRoleRole{RoleID: id})
	}
	if err := s.Repo.CreateMicroRole(ctx, role); err != nil {
		return nil, internalErr(err)
	}

	created, err := s.Repo.MicroRoleOf(ctx, account.ID, role.ID)
	if err != nil {
		return nil, internalErr(err)
	}
	out := roleOf(created)
	return &out, nil
}

// RoleEdit renames a micro role and replaces its privilege set.
func (s *RolesService) RoleEdit(ctx context.Context, claims *tokens.Claims, req *identityclient.Role) (*identityclient.Role, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	role, err := s.ownedRole(ctx, account.ID, req.ID)
	if err != nil {
		return nil, err
	}

	roleIDs := privilegeIDs(req.Privileges)
	ok, err := s.Repo.BaseRolesExist(ctx, roleIDs)
	if err != nil {
		return nil, internalErr(err)
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "Wrong roles")
	}

	if err := s.Repo.ReplaceMicroRolePrivileges(ctx, role, req.Name, roleIDs); err != nil {
		return nil, internalErr(err)
	}

	edited, err := s.Repo.MicroRoleOf(ctx, account.ID, role.ID)
	if err != nil {
		return nil, internalErr(err)
	}
	out := roleOf(edited)
	return &out, nil
}

// RoleRemove deletes a micro role owned by the caller, cascading its
// grants.
func (s *RolesService) RoleRemove(ctx context.Context, claims *tokens.Claims, req *identityclient.RoleRequest) (*identityclient.Role, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	role, err := s.ownedRole(ctx, account.ID, req.RoleID)
	if err != nil {
		return nil, err
	}
	out := roleOf(role)

	if err := s.Repo.DeleteMicroRole(ctx, role.ID); err != nil {
		return nil, internalErr(err)
	}
	return &out, nil
}

func (s *RolesService) RoleInfo(ctx context.Context, claims *tokens.Claims, req *identityclient.RoleRequest) (*identityclient.Role, error) {
	account, err := s.CallerAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	role, err := s.ownedRole(ctx, account.ID, req.RoleID)
	if err != nil {
		return nil, err
	}
	out := roleOf(role)
	return &out, nil
}

func (s *RolesService) tenantLink(ctx context.Context, tenantID, userID uint) (*models.TenantUser, error) {
	link, err := s.Repo.TenantUserFor(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.Error(codes.InvalidArgument, "Wrong tenant")
		}
		return nil, internalErr(err)
	}
	return link, nil
}

func (s *RolesService) requireOwnedRoles(ctx context.Context, ownerID uint, ids []uint) error {
	owned, err := s.Repo.OwnedMicroRoles(ctx, ownerID, ids)
	if err != nil {
		return internalErr(err)
	}
	if len(owned) != len(ids) {
		return status.Error(codes.InvalidArgument, "Wrong roles")
	}
	return nil
}

func (s *RolesService) ownedRole(ctx context.Context, ownerID, roleID uint) (*models.MicroRole, error) {
	role, err := s.Repo.MicroRoleOf(ctx, ownerID, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.Error(codes.InvalidArgument, "Role not found")
		}
		return nil, internalErr(err)
	}
	return role, nil
}

func (s *RolesService) userTenantRoles(ctx context.Context, link *models.TenantUser, userID uint) (*identityclient.UserRolesResponse, error) {
	grants, err := s.Repo.GrantsFor(ctx, link.ID)
	if err != nil {
		return nil, internalErr(err)
	}

	resp := &identityclient.UserRolesResponse{UserID: userID, Roles: make([]identityclient.Role, 0, len(grants))}
	for _, g := range grants {
		resp.Roles = append(resp.Roles, identityclient.Role{
			ID:     g.MicroRole.ID,
			UserID: g.MicroRole.UserID,
			Name:   g.MicroRole.Name,
		})
	}
	return resp, nil
}

func roleOf(role *models.MicroRole) identityclient.Role {
	out := identityclient.Role{
		ID:     role.ID,
		UserID: role.UserID,
		Name:   role.Name,
	}
	for _, mrr := range role.MicroRoleRoles {
		out.Privileges = append(out.Privileges, identityclient.Privilege{ID: mrr.RoleID, Name: mrr.Role.Name})
	}
	return out
}

func privilegeIDs(privileges []identityclient.Privilege) []uint {
	ids := make([]uint, 0, len(privileges))
	for _, p := range privileges {
		ids = append(ids, p.ID)
	}
	return dedupIDs(ids)
}

// dedupIDs drops repeated ids, keeping first-seen order. Requests may
// carry duplicates; grant rows are keyed on the id.
func dedupIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
