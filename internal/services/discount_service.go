package services

import (
	"context"
	"fmt"
	"time"

	"leadflow/internal/models/response_models"
	"leadflow/internal/repositories"
	"leadflow/pkg/utils"
)

// DiscountService validates promo codes against a recharge amount. Validate
// never mutates usage counters; RecordUse is called exactly once, when a
// recharge carrying the code settles.
type DiscountService interface {
	Validate(ctx context.Context, code string, amountMinor int64) (*response_models.DiscountValidationResponse, error)
	RecordUse(ctx context.Context, code string) error
}

type discountService struct {
	promoRepo repositories.DiscountCodeRepository
}

func NewDiscountService(promoRepo repositories.DiscountCodeRepository) DiscountService {
	return &discountService{
		promoRepo: promoRepo,
	}
}

func (d *discountService) Validate(ctx context.Context, code string, amountMinor int64) (*response_models.DiscountValidationResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", utils.ErrValidation)
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount is required", utils.ErrValidation)
	}

	promo, err := d.promoRepo.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return &response_models.DiscountValidationResponse{Valid: false, Message: "Invalid or inactive code"}, nil
	}

	if promo.ValidUntil != nil && *promo.ValidUntil < time.Now().Unix() {
		return &response_models.DiscountValidationResponse{Valid: false, Message: "Code expired"}, nil
	}

	if promo.TotalUses != nil && promo.UsesCount >= *promo.TotalUses {
		return &response_models.DiscountValidationResponse{Valid: false, Message: "Usage limit reached"}, nil
	}

	discountMinor := utils.PercentOf(amountMinor, promo.DiscountPercentage)

	return &response_models.DiscountValidationResponse{
		Valid:               true,
		DiscountPercentage:  promo.DiscountPercentage,
		DiscountAmountMinor: discountMinor,
		FinalAmountMinor:    amountMinor - discountMinor,
		Message:             fmt.Sprintf("Code applied: %d%% Off", promo.DiscountPercentage),
	}, nil
}

func (d *discountService) RecordUse(ctx context.Context, code string) error {
	return d.promoRepo.IncrementUse(ctx, code)
}
