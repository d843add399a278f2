package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

var ErrNotFound = gorm.ErrRecordNotFound

func (r *GormRepo) FindAccountByName(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *GormRepo) FindAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *GormRepo) CreateAccount(ctx context.Context, account *models.Account) error {
	return r.DB.WithContext(ctx).Create(account).Error
}

func (r *GormRepo) UpdateAccount(ctx context.Context, account *models.Account) error {
	return r.DB.WithContext(ctx).Save(account).Error
}

// SystemRoles returns the names of the roles directly assigned to an
// account.
func (r *GormRepo) SystemRoles(ctx context.Context, accountID uint) ([]string, error) {
	var names []string
	err := r.DB.WithContext(ctx).
		Model(&models.AccountRole{}).
		Joins("JOIN roles ON roles.id = account_roles.role_id").
		Where("account_roles.account_id = ?", accountID).
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// AddToRole assigns a system role by name.
func (r *GormRepo) AddToRole(ctx context.Context, accountID uint, roleName string) error {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("name = ?", roleName).First(&role).Error; err != nil {
		return err
	}
	link := models.AccountRole{AccountID: accountID, RoleID: role.ID}
	err := r.DB.WithContext(ctx).Create(&link).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// CompanyHasAdmin reports whether any account of the company already
// holds the Admin role (role id 1 in the seeded catalog). The lowest
// account id wins by construction: the first registered account of a
// company is the one that received Admin.
func (r *GormRepo) CompanyHasAdmin(ctx context.Context, company string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.AccountRole{}).
		Joins("JOIN accounts ON accounts.id = account_roles.account_id").
		Joins("JOIN roles ON roles.id = account_roles.role_id").
		Where("accounts.company = ? AND roles.name = ?", company, "Admin").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
