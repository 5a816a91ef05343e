package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"leadflow/internal/models/db_models"
)

type DiscountCodeRepository interface {
	FindActiveByCode(ctx context.Context, code string) (*db_models.DiscountCode, error)
	IncrementUse(ctx context.Context, code string) error
}

type discountCodeRepository struct {
	db *gorm.DB
}

func NewDiscountCodeRepository(db *gorm.DB) DiscountCodeRepository {
	return &discountCodeRepository{
		db: db,
	}
}

func (d *discountCodeRepository) FindActiveByCode(ctx context.Context, code string) (*db_models.DiscountCode, error) {
	var promo db_models.DiscountCode
	err := d.db.WithContext(ctx).
		Where("code = ? AND active = ?", code, true).
		First(&promo).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &promo, nil
}

func (d *discountCodeRepository) IncrementUse(ctx context.Context, code string) error {
	return d.db.WithContext(ctx).Model(&db_models.DiscountCode{}).
		Where("code = ?", code).
		Updates(map[string]interface{}{
			"uses_count": gorm.Expr("uses_count + 1"),
			"updated_at": time.Now().Unix(),
		}).Error
}
