package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/services/products/internal/models"
)

var ErrNotFound = gorm.ErrRecordNotFound

type ProductRepo struct {
	DB *gorm.DB
}

func (r *ProductRepo) Migrate() error {
	return r.DB.AutoMigrate(&models.Product{})
}

func (r *ProductRepo) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepo) ByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) Create(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *ProductRepo) Update(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Save(product).Error
}

// Delete removes a product by id. Deleting an absent id reports
// ErrNotFound.
func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchByName is the database fallback used when no search index is
// configured.
func (r *ProductRepo) SearchByName(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Where("name LIKE ?", "%"+query+"%").
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
