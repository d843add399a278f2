package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

// TenantUserFor fetches the membership link for one (tenant, user)
// pair.
func (r *GormRepo) TenantUserFor(ctx context.Context, tenantID, userID uint) (*models.TenantUser, error) {
	var link models.TenantUser
	err := r.DB.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// IsAttached reports whether the account is attached to any tenant.
// One tenant per account is the enforced invariant.
func (r *GormRepo) IsAttached(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.TenantUser{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) Attach(ctx context.Context, tenantID, userID uint) error {
	link := models.TenantUser{TenantID: tenantID, UserID: userID}
	return r.DB.WithContext(ctx).Create(&link).Error
}

// Detach removes the membership link and every grant that hangs off
// it, as one transaction. Detaching an absent link is a no-op.
func (r *GormRepo) Detach(ctx context.Context, tenantID, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link models.TenantUser
		err := tx.Where("tenant_id = ? AND user_id = ?", tenantID, userID).First(&link).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		if err := tx.Where("tenant_user_id = ?", link.ID).Delete(&models.TenantUserMicroRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TenantUser{}, link.ID).Error
	})
}

// TenantsOf lists the distinct tenant accounts the user is attached
// to.
func (r *GormRepo) TenantsOf(ctx context.Context, userID uint) ([]models.Account, error) {
	var tenants []models.Account
	err := r.DB.WithContext(ctx).
		Model(&models.Account{}).
		Distinct().
		Joins("JOIN tenant_users ON tenant_users.tenant_id = accounts.id").
		Where("tenant_users.user_id = ?", userID).
		Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// FirstTenantOf returns the tenant the account belongs to, or nil.
func (r *GormRepo) FirstTenantOf(ctx context.Context, userID uint) (*models.Account, error) {
	tenants, err := r.TenantsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, nil
	}
	return &tenants[0], nil
}

// AttachedUsersOf lists the accounts attached to the tenant.
func (r *GormRepo) AttachedUsersOf(ctx context.Context, tenantID uint) ([]models.Account, error) {
	var users []models.Account
	err := r.DB.WithContext(ctx).
		Model(&models.Account{}).
		Joins("JOIN tenant_users ON tenant_users.user_id = accounts.id").
		Where("tenant_users.tenant_id = ?", tenantID).
		Order("accounts.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
