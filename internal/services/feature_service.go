package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadflow/internal/models/db_models"
	"leadflow/internal/models/response_models"
	"leadflow/internal/repositories"
	"leadflow/pkg/utils"
)

// Fixed-price add-ons resolved server-side; anything else is priced by the
// caller (platform admin tooling sets those amounts).
var addonCostsMinor = map[string]int64{
	"custom_slug":   10000,  // ₹100
	"custom_domain": 500000, // ₹5000
}

type FeatureService interface {
	Unlock(ctx context.Context, companyID, userID uuid.UUID, featureName string, amountMinor int64) (*response_models.UnlockFeatureResponse, error)
}

type featureService struct {
	unlockRepo repositories.FeatureUnlockRepository
	wallet     WalletService
}

func NewFeatureService(unlockRepo repositories.FeatureUnlockRepository, wallet WalletService) FeatureService {
	return &featureService{
		unlockRepo: unlockRepo,
		wallet:     wallet,
	}
}

func (f *featureService) Unlock(ctx context.Context, companyID, userID uuid.UUID, featureName string, amountMinor int64) (*response_models.UnlockFeatureResponse, error) {
	if featureName == "" {
		return nil, fmt.Errorf("%w: feature name is required", utils.ErrValidation)
	}

	cost := amountMinor
	if catalogCost, ok := addonCostsMinor[featureName]; ok {
		cost = catalogCost
	}
	if cost <= 0 {
		return nil, fmt.Errorf("%w: amount is required", utils.ErrValidation)
	}

	// Fast-fail before touching money. The unique index on
	// (company_id, feature_name) remains the authoritative guard.
	exists, err := f.unlockRepo.Exists(ctx, companyID, featureName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: feature already unlocked", utils.ErrConflict)
	}

	// The unlock row and the feature flag land in one DB transaction, so a
	// compensated failure leaves neither behind.
	description := fmt.Sprintf("Unlocked feature: %s", featureName)
	newBalance, err := f.wallet.DebitThenDo(ctx, companyID, cost, db_models.TxnDebitManualAdjustment, description,
		func(ctx context.Context) error {
			unlock := &db_models.FeatureUnlock{
				CompanyID:       companyID,
				FeatureName:     featureName,
				AmountPaidMinor: cost,
				UnlockedBy:      userID,
			}
			if err := f.unlockRepo.Create(ctx, unlock); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: feature already unlocked", utils.ErrConflict)
				}
				return fmt.Errorf("record feature unlock: %w", err)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return &response_models.UnlockFeatureResponse{
		FeatureName:     featureName,
		NewBalanceMinor: newBalance,
	}, nil
}
