package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// SystemRoleNames is the immutable base role catalog, seeded at
// startup. Admin must stay first so it gets id 1.
var SystemRoleNames = []string{
	"Admin",
	"User",
	"GetOrder",
	"CreateOrder",
	"UpdateOrder",
	"DeleteOrder",
	"GetProduct",
	"CreateProduct",
	"UpdateProduct",
	"DeleteProduct",
}

// SeedRoles inserts the base role catalog if it is not present yet.
func (r *GormRepo) SeedRoles(ctx context.Context) error {
	for _, name := range SystemRoleNames {
		role := models.Role{Name: name}
		err := r.DB.WithContext(ctx).
			Where("name = ?", name).
			FirstOrCreate(&role).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Migrate creates the identity schema.
func (r *GormRepo) Migrate() error {
	return r.DB.AutoMigrate(models.All()...)
}
