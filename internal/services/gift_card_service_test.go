package services_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadflow/internal/models/db_models"
	"leadflow/internal/services"
	"leadflow/pkg/utils"
)

func newGiftCardFixture() (services.GiftCardService, *fakeGiftCardRepo, *fakeWalletRepo) {
	walletRepo := newFakeWalletRepo()
	txnRepo := newFakeTransactionRepo(walletRepo)
	cardRepo := newFakeGiftCardRepo()
	wallet := services.NewWalletService(walletRepo, txnRepo)
	return services.NewGiftCardService(cardRepo, wallet), cardRepo, walletRepo
}

func TestGiftCardRedeemCreditsWallet(t *testing.T) {
	svc, cardRepo, walletRepo := newGiftCardFixture()
	cardRepo.cards["GC-AABBCCDD"] = &db_models.GiftCard{
		Code:        "GC-AABBCCDD",
		AmountMinor: 50000,
		Active:      true,
	}
	companyID := uuid.New()

	resp, err := svc.Redeem(context.Background(), companyID, "GC-AABBCCDD")
	require.NoError(t, err)
	assert.Equal(t, int64(50000), resp.AmountMinor)
	assert.Equal(t, int64(50000), resp.NewBalanceMinor)

	card := cardRepo.cards["GC-AABBCCDD"]
	assert.True(t, card.IsRedeemed)
	require.NotNil(t, card.RedeemedBy)
	assert.Equal(t, companyID, *card.RedeemedBy)
	assert.NotNil(t, card.RedeemedAt)

	assert.Equal(t, 1, walletRepo.countByType(companyID, db_models.TxnCreditGiftCard))
}

func TestGiftCardRedeemUnknownCode(t *testing.T) {
	svc, _, _ := newGiftCardFixture()

	_, err := svc.Redeem(context.Background(), uuid.New(), "GC-NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestGiftCardRedeemEmptyCode(t *testing.T) {
	svc, _, _ := newGiftCardFixture()

	_, err := svc.Redeem(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestGiftCardRedeemInactive(t *testing.T) {
	svc, cardRepo, _ := newGiftCardFixture()
	cardRepo.cards["GC-FROZEN"] = &db_models.GiftCard{
		Code:        "GC-FROZEN",
		AmountMinor: 50000,
		Active:      false,
	}

	_, err := svc.Redeem(context.Background(), uuid.New(), "GC-FROZEN")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestGiftCardRedeemAlreadyRedeemed(t *testing.T) {
	svc, cardRepo, walletRepo := newGiftCardFixture()
	winner := uuid.New()
	cardRepo.cards["GC-TAKEN"] = &db_models.GiftCard{
		Code:        "GC-TAKEN",
		AmountMinor: 50000,
		Active:      true,
		IsRedeemed:  true,
		RedeemedBy:  &winner,
	}
	companyID := uuid.New()

	_, err := svc.Redeem(context.Background(), companyID, "GC-TAKEN")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrConflict)
	assert.Equal(t, int64(0), walletRepo.balances[companyID])
}

func TestGiftCardRedeemExpired(t *testing.T) {
	svc, cardRepo, _ := newGiftCardFixture()
	past := time.Now().Add(-time.Hour).Unix()
	cardRepo.cards["GC-OLD"] = &db_models.GiftCard{
		Code:        "GC-OLD",
		AmountMinor: 50000,
		Active:      true,
		ExpiresAt:   &past,
	}

	_, err := svc.Redeem(context.Background(), uuid.New(), "GC-OLD")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrValidation)
	assert.False(t, cardRepo.cards["GC-OLD"].IsRedeemed, "an expired card is never claimed")
}

func TestGiftCardConcurrentRedeemHasOneWinner(t *testing.T) {
	svc, cardRepo, walletRepo := newGiftCardFixture()
	cardRepo.cards["GC-RACE"] = &db_models.GiftCard{
		Code:        "GC-RACE",
		AmountMinor: 50000,
		Active:      true,
	}

	const redeemers = 8
	companies := make([]uuid.UUID, redeemers)
	errs := make([]error, redeemers)
	var wg sync.WaitGroup
	for i := 0; i < redeemers; i++ {
		companies[i] = uuid.New()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Redeem(context.Background(), companies[i], "GC-RACE")
		}(i)
	}
	wg.Wait()

	winners := 0
	var total int64
	for i, err := range errs {
		if err == nil {
			winners++
			total += walletRepo.balances[companies[i]]
			continue
		}
		assert.ErrorIs(t, err, utils.ErrConflict)
	}
	assert.Equal(t, 1, winners, "exactly one redeemer claims the card")
	assert.Equal(t, int64(50000), total, "the value is credited exactly once")
}

func TestGiftCardMint(t *testing.T) {
	svc, cardRepo, _ := newGiftCardFixture()
	expires := time.Now().Add(90 * 24 * time.Hour).Unix()

	resp, err := svc.Mint(context.Background(), 50000, &expires)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^GC-[0-9A-F]{16}$`), resp.Code)
	assert.Equal(t, int64(50000), resp.AmountMinor)
	require.NotNil(t, resp.ExpiresAt)
	assert.Equal(t, expires, *resp.ExpiresAt)

	card := cardRepo.cards[resp.Code]
	require.NotNil(t, card)
	assert.True(t, card.Active)
	assert.False(t, card.IsRedeemed)
}

func TestGiftCardMintRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _ := newGiftCardFixture()

	_, err := svc.Mint(context.Background(), 0, nil)
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Mint(context.Background(), -100, nil)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestGiftCardMintedCardIsRedeemable(t *testing.T) {
	svc, _, walletRepo := newGiftCardFixture()
	companyID := uuid.New()

	minted, err := svc.Mint(context.Background(), 25000, nil)
	require.NoError(t, err)

	resp, err := svc.Redeem(context.Background(), companyID, minted.Code)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), resp.NewBalanceMinor)
	assert.Equal(t, int64(25000), walletRepo.balances[companyID])
}
