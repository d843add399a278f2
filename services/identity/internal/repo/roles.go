package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/pkg/tokens"
	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

// BaseRoles returns the seeded role catalog.
func (r *GormRepo) BaseRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.DB.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// BaseRolesExist reports whether every id references a catalog role.
func (r *GormRepo) BaseRolesExist(ctx context.Context, ids []uint) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Role{}).Where("id IN ?", ids).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == int64(len(ids)), nil
}

// MicroRolesOf lists the micro roles owned by an account, privileges
// preloaded.
func (r *GormRepo) MicroRolesOf(ctx context.Context, ownerID uint) ([]models.MicroRole, error) {
	var roles []models.MicroRole
	err := r.DB.WithContext(ctx).
		Preload("MicroRoleRoles.Role").
		Where("user_id = ?", ownerID).
		Order("id").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// MicroRoleOf fetches one micro role owned by ownerID.
func (r *GormRepo) MicroRoleOf(ctx context.Context, ownerID, roleID uint) (*models.MicroRole, error) {
	var role models.MicroRole
	err := r.DB.WithContext(ctx).
		Preload("MicroRoleRoles.Role").
		Where("user_id = ? AND id = ?", ownerID, roleID).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// OwnedMicroRoles returns the subset of ids that are micro roles owned
// by ownerID.
func (r *GormRepo) OwnedMicroRoles(ctx context.Context, ownerID uint, ids []uint) ([]models.MicroRole, error) {
	var roles []models.MicroRole
	if len(ids) == 0 {
		return roles, nil
	}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRepo) CreateMicroRole(ctx context.Context, role *models.MicroRole) error {
	return r.DB.WithContext(ctx).Create(role).Error
}

// ReplaceMicroRolePrivileges swaps the base-role set of a micro role
// and renames it, as one transaction.
func (r *GormRepo) ReplaceMicroRolePrivileges(ctx context.Context, role *models.MicroRole, name string, roleIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(role).Update("name", name).Error; err != nil {
			return err
		}
		if err := tx.Where("micro_role_id = ?", role.ID).Delete(&models.MicroRoleRole{}).Error; err != nil {
			return err
		}
		for _, id := range roleIDs {
			link := models.MicroRoleRole{MicroRoleID: role.ID, RoleID: id}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteMicroRole removes a micro role with its privilege links and
// every grant that references it.
func (r *GormRepo) DeleteMicroRole(ctx context.Context, roleID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("micro_role_id = ?", roleID).Delete(&models.TenantUserMicroRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("micro_role_id = ?", roleID).Delete(&models.MicroRoleRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MicroRole{}, roleID).Error
	})
}

// ComposeAccessRoles builds the claim role set for an access token:
// the account's system roles plus "{tenantId}/{roleName}" for every
// base role inside every micro role granted to the account, dedup'd.
func (r *GormRepo) ComposeAccessRoles(ctx context.Context, accountID uint) ([]string, error) {
	names, err := r.SystemRoles(ctx, accountID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	roles := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		roles = append(roles, n)
	}

	var grants []models.TenantUserMicroRole
	err = r.DB.WithContext(ctx).
		Preload("TenantUser").
		Preload("MicroRole.MicroRoleRoles.Role").
		Joins("JOIN tenant_users ON tenant_users.id = tenant_user_micro_roles.tenant_user_id").
		Where("tenant_users.user_id = ?", accountID).
		Find(&grants).Error
	if err != nil {
		return nil, err
	}

	for _, grant := range grants {
		for _, mrr := range grant.MicroRole.MicroRoleRoles {
			name := tokens.TenantRole(grant.TenantUser.TenantID, mrr.Role.Name)
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			roles = append(roles, name)
		}
	}

	return roles, nil
}

// GrantsFor lists the micro roles granted to one tenant/user pair.
func (r *GormRepo) GrantsFor(ctx context.Context, tenantUserID uint) ([]models.TenantUserMicroRole, error) {
	var grants []models.TenantUserMicroRole
	err := r.DB.WithContext(ctx).
		Preload("MicroRole").
		Where("tenant_user_id = ?", tenantUserID).
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// ReplaceGrants swaps the full grant set of a tenant/user pair:
// delete-then-insert in one transaction so a partial failure rolls
// back fully.
func (r *GormRepo) ReplaceGrants(ctx context.Context, tenantUserID uint, microRoleIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_user_id = ?", tenantUserID).Delete(&models.TenantUserMicroRole{}).Error; err != nil {
			return err
		}
		for _, id := range microRoleIDs {
			grant := models.TenantUserMicroRole{TenantUserID: tenantUserID, MicroRoleID: id}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveGrants deletes only the listed micro-role grants of a pair.
func (r *GormRepo) RemoveGrants(ctx context.Context, tenantUserID uint, microRoleIDs []uint) error {
	if len(microRoleIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("tenant_user_id = ? AND micro_role_id IN ?", tenantUserID, microRoleIDs).
		Delete(&models.TenantUserMicroRole{}).Error
}

// GrantsOfUser lists every grant a tenant handed to the given user
// accounts, preloaded for response building.
func (r *GormRepo) GrantsOfUsers(ctx context.Context, tenantID uint, userIDs []uint) ([]models.TenantUserMicroRole, error) {
	var grants []models.TenantUserMicroRole
	q := r.DB.WithContext(ctx).
		Preload("MicroRole").
		Preload("TenantUser").
		Joins("JOIN tenant_users ON tenant_users.id = tenant_user_micro_roles.tenant_user_id").
		Where("tenant_users.tenant_id = ?", tenantID)
	if len(userIDs) > 0 {
		q = q.Where("tenant_users.user_id IN ?", userIDs)
	}
	if err := q.Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

// GrantsToUser lists every grant the given account received from any
// tenant.
func (r *GormRepo) GrantsToUser(ctx context.Context, userID uint) ([]models.TenantUserMicroRole, error) {
	var grants []models.TenantUserMicroRole
	err := r.DB.WithContext(ctx).
		Preload("MicroRole").
		Preload("TenantUser").
		Joins("JOIN tenant_users ON tenant_users.id = tenant_user_micro_roles.tenant_user_id").
		Where("tenant_users.user_id = ?", userID).
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// TenantUsersGranted returns the tenant-user links of a tenant that
// hold the given micro role.
func (r *GormRepo) TenantUsersGranted(ctx context.Context, tenantID, microRoleID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&models.TenantUserMicroRole{}).
		Joins("JOIN tenant_users ON tenant_users.id = tenant_user_micro_roles.tenant_user_id").
		Where("tenant_user_micro_roles.micro_role_id = ? AND tenant_users.tenant_id = ?", microRoleID, tenantID).
		Pluck("tenant_user_micro_roles.tenant_user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
