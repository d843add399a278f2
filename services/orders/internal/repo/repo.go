package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vyatkin0/micro-services/services/orders/internal/models"
)

var ErrNotFound = gorm.ErrRecordNotFound

type OrderRepo struct {
	DB *gorm.DB
}

func (r *OrderRepo) Migrate() error {
	return r.DB.AutoMigrate(models.All()...)
}

// List returns a page of orders owned by the given accounts, newest
// first, with the total before paging.
func (r *OrderRepo) List(ctx context.Context, userIDs []uint, offset, count int) ([]models.Order, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id IN ?", userIDs)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := q.Preload("Items").
		Order("id DESC").
		Offset(offset).
		Limit(count).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ByID fetches one order if it is owned by one of the given accounts.
func (r *OrderRepo) ByID(ctx context.Context, id uint, userIDs []uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id IN ?", id, userIDs).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

// Update saves the order and, when items is non-nil, swaps the item
// set inside the same transaction.
func (r *OrderRepo) Update(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		if items == nil {
			return nil
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

// Delete soft-deletes an owned order and removes its items, as one
// transaction. An absent or foreign id reports ErrNotFound.
func (r *OrderRepo) Delete(ctx context.Context, id uint, userIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ? AND user_id IN ?", id, userIDs).First(&order).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}
