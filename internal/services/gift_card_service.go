package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadflow/internal/models/db_models"
	"leadflow/internal/models/response_models"
	"leadflow/internal/repositories"
	"leadflow/pkg/utils"
)

type GiftCardService interface {
	Redeem(ctx context.Context, companyID uuid.UUID, code string) (*response_models.RedeemGiftCardResponse, error)
	Mint(ctx context.Context, amountMinor int64, expiresAt *int64) (*response_models.GiftCardResponse, error)
}

type giftCardService struct {
	cardRepo repositories.GiftCardRepository
	wallet   WalletService
}

func NewGiftCardService(cardRepo repositories.GiftCardRepository, wallet WalletService) GiftCardService {
	return &giftCardService{
		cardRepo: cardRepo,
		wallet:   wallet,
	}
}

func (g *giftCardService) Redeem(ctx context.Context, companyID uuid.UUID, code string) (*response_models.RedeemGiftCardResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", utils.ErrValidation)
	}

	card, err := g.cardRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("%w: invalid gift card code", utils.ErrNotFound)
	}
	if !card.Active {
		return nil, fmt.Errorf("%w: gift card is inactive", utils.ErrValidation)
	}
	if card.IsRedeemed {
		return nil, fmt.Errorf("%w: gift card already redeemed", utils.ErrConflict)
	}
	if card.ExpiresAt != nil && *card.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("%w: gift card expired", utils.ErrValidation)
	}

	// The conditional flip is the real lock; losing it means a concurrent
	// redeemer already took the card. Credit strictly after the claim.
	claimed, err := g.cardRepo.Claim(ctx, code, companyID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: gift card already redeemed", utils.ErrConflict)
	}

	newBalance, err := g.wallet.Credit(ctx, companyID, card.AmountMinor,
		db_models.TxnCreditGiftCard, fmt.Sprintf("Gift card redeemed: %s", code), nil, nil)
	if err != nil {
		return nil, err
	}

	return &response_models.RedeemGiftCardResponse{
		AmountMinor:     card.AmountMinor,
		NewBalanceMinor: newBalance,
	}, nil
}

func (g *giftCardService) Mint(ctx context.Context, amountMinor int64, expiresAt *int64) (*response_models.GiftCardResponse, error) {
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", utils.ErrValidation)
	}

	code, err := newGiftCardCode()
	if err != nil {
		return nil, err
	}

	card := &db_models.GiftCard{
		Code:        code,
		AmountMinor: amountMinor,
		Active:      true,
		ExpiresAt:   expiresAt,
	}
	if err := g.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	return &response_models.GiftCardResponse{
		Code:        card.Code,
		AmountMinor: card.AmountMinor,
		ExpiresAt:   card.ExpiresAt,
	}, nil
}

func newGiftCardCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "GC-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}
