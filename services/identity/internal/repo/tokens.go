package repo

import (
	"context"
	"time"

	"github.com/vyatkin0/micro-services/services/identity/internal/models"
)

func (r *GormRepo) CreateRefreshToken(ctx context.Context, accountID uint, tokenID string, validFrom, validTo time.Time) error {
	record := models.RefreshToken{
		AccountID: accountID,
		TokenID:   tokenID,
		ValidFrom: validFrom,
		ValidTo:   validTo,
	}
	return r.DB.WithContext(ctx).Create(&record).Error
}

// DeleteRefreshToken revokes a refresh token. Deleting an absent
// record is not an error; revocation is idempotent.
func (r *GormRepo) DeleteRefreshToken(ctx context.Context, accountID uint, tokenID string) error {
	return r.DB.WithContext(ctx).
		Where("account_id = ? AND token_id = ?", accountID, tokenID).
		Delete(&models.RefreshToken{}).Error
}

func (r *GormRepo) RefreshTokenExists(ctx context.Context, accountID uint, tokenID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("account_id = ? AND token_id = ?", accountID, tokenID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
