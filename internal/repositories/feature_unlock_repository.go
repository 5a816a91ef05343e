package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadflow/internal/models/db_models"
)

type FeatureUnlockRepository interface {
	Exists(ctx context.Context, companyID uuid.UUID, featureName string) (bool, error)
	// Create inserts the unlock row and raises the company's feature flag in
	// one DB transaction, so a refunded unlock can never leave either write
	// behind. Surfaces gorm.ErrDuplicatedKey untouched; the unique index on
	// (company_id, feature_name) is the real double-unlock guard.
	Create(ctx context.Context, unlock *db_models.FeatureUnlock) error
}

type featureUnlockRepository struct {
	db *gorm.DB
}

func NewFeatureUnlockRepository(db *gorm.DB) FeatureUnlockRepository {
	return &featureUnlockRepository{
		db: db,
	}
}

func (f *featureUnlockRepository) Exists(ctx context.Context, companyID uuid.UUID, featureName string) (bool, error) {
	var count int64
	err := f.db.WithContext(ctx).Model(&db_models.FeatureUnlock{}).
		Where("company_id = ? AND feature_name = ?", companyID, featureName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (f *featureUnlockRepository) Create(ctx context.Context, unlock *db_models.FeatureUnlock) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(unlock).Error; err != nil {
			return err
		}

		path := fmt.Sprintf("{%s}", unlock.FeatureName)
		return tx.Exec(
			`UPDATE companies
			 SET features = jsonb_set(coalesce(features, '{}'::jsonb), ?::text[], 'true'::jsonb),
			     updated_at = ?
			 WHERE id = ?`,
			path, time.Now().Unix(), unlock.CompanyID).Error
	})
}
