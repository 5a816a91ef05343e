package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadflow/internal/models/db_models"
)

type GiftCardRepository interface {
	FindByCode(ctx context.Context, code string) (*db_models.GiftCard, error)
	// Claim performs the one-time is_redeemed false→true flip. It returns
	// false when another redeemer already won the race.
	Claim(ctx context.Context, code string, companyID uuid.UUID) (bool, error)
	Create(ctx context.Context, card *db_models.GiftCard) error
}

type giftCardRepository struct {
	db *gorm.DB
}

func NewGiftCardRepository(db *gorm.DB) GiftCardRepository {
	return &giftCardRepository{
		db: db,
	}
}

func (g *giftCardRepository) FindByCode(ctx context.Context, code string) (*db_models.GiftCard, error) {
	var card db_models.GiftCard
	err := g.db.WithContext(ctx).First(&card, "code = ?", code).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &card, nil
}

func (g *giftCardRepository) Claim(ctx context.Context, code string, companyID uuid.UUID) (bool, error) {
	now := time.Now().Unix()
	res := g.db.WithContext(ctx).Model(&db_models.GiftCard{}).
		Where("code = ? AND is_redeemed = ?", code, false).
		Updates(map[string]interface{}{
			"is_redeemed": true,
			"redeemed_by": companyID,
			"redeemed_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (g *giftCardRepository) Create(ctx context.Context, card *db_models.GiftCard) error {
	return g.db.WithContext(ctx).Create(card).Error
}
