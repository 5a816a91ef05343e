package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"leadflow/internal/models/db_models"
	"leadflow/internal/models/response_models"
	"leadflow/internal/repositories"
	"leadflow/pkg/utils"
)

// WalletService is the only path to a company's balance. Every mutation pairs
// the wallet write with a ledger entry, and DebitThenDo is the single
// compensation primitive shared by all multi-step ledger operations.
type WalletService interface {
	GetBalance(ctx context.Context, companyID uuid.UUID) (int64, error)
	Credit(ctx context.Context, companyID uuid.UUID, amountMinor int64, txnType db_models.TxnType, description string, referenceID *string, metadata map[string]interface{}) (int64, error)
	Debit(ctx context.Context, companyID uuid.UUID, amountMinor int64, txnType db_models.TxnType, description string) (int64, error)
	// DebitThenDo debits, runs sideEffect, and issues a compensating credit
	// when the side effect fails. The original failure is always surfaced; a
	// compensated operation never reports success and is never retried here.
	DebitThenDo(ctx context.Context, companyID uuid.UUID, amountMinor int64, txnType db_models.TxnType, description string, sideEffect func(ctx context.Context) error) (int64, error)
	ListTransactions(ctx context.Context, companyID uuid.UUID, page, pageSize int) ([]response_models.TransactionResponse, error)
}

type walletService struct {
	walletRepo repositories.WalletRepository
	txnRepo    repositories.TransactionRepository
}

func NewWalletService(walletRepo repositories.WalletRepository, txnRepo repositories.TransactionRepository) WalletService {
	return &walletService{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
	}
}

func (w *walletService) GetBalance(ctx context.Context, companyID uuid.UUID) (int64, error) {
	wallet, err := w.walletRepo.FindByCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}
	if wallet == nil {
		return 0, nil
	}
	return wallet.BalanceMinor, nil
}

func (w *walletService) Credit(ctx context.Context, companyID uuid.UUID, amountMinor int64, txnType db_models.TxnType, description string, referenceID *string, metadata map[string]interface{}) (int64, error) {
	if !txnType.IsCredit() {
		return 0, fmt.Errorf("%w: %s is not a credit type", utils.ErrValidation, txnType)
	}

	txn := &db_models.WalletTransaction{
		Type:        txnType,
		Description: description,
		ReferenceID: referenceID,
		Metadata:    metadata,
	}
	return w.walletRepo.CreditWithLog(ctx, companyID, amountMinor, txn)
}

func (w *walletService) Debit(ctx context.Context, companyID uuid.UUID, amountMinor int64, txnType db_models.TxnType, description string) (int64, error) {
	if txnType.IsCredit() {
		return 0, fmt.Errorf("%w: %s is not a debit type", utils.ErrValidation, txnType)
	}

	txn := &db_models.WalletTransaction{
		Type:        txnType,
		Description: description,
	}
	return w.walletRepo.DebitWithLog(ctx, companyID, amountMinor, txn)
}

func (w *walletService) DebitThenDo(ctx context.Context, companyID uuid.UUID, amountMinor int64, txnType db_models.TxnType, description string, sideEffect func(ctx context.Context) error) (int64, error) {
	newBalance, err := w.Debit(ctx, companyID, amountMinor, txnType, description)
	if err != nil {
		return 0, err
	}

	if err := sideEffect(ctx); err != nil {
		refundDesc := fmt.Sprintf("Refund: %s failed", description)
		if _, creditErr := w.Credit(ctx, companyID, amountMinor, db_models.TxnCreditManualAdjustment, refundDesc, nil, nil); creditErr != nil {
			// Money is now missing from the wallet with nothing delivered.
			// Surface loudly; the ledger rows are the audit trail.
			log.Printf("CRITICAL: compensating credit failed for company %s (%d minor): %v", companyID, amountMinor, creditErr)
		}
		return 0, err
	}

	return newBalance, nil
}

func (w *walletService) ListTransactions(ctx context.Context, companyID uuid.UUID, page, pageSize int) ([]response_models.TransactionResponse, error) {
	if page < 1 || pageSize < 1 || pageSize > 100 {
		return nil, fmt.Errorf("%w: invalid pagination", utils.ErrValidation)
	}

	txns, err := w.txnRepo.ListByCompany(ctx, companyID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	out := make([]response_models.TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, response_models.TransactionResponse{
			ID:          t.ID,
			AmountMinor: t.Type.SignedAmount(t.AmountMinor),
			Type:        string(t.Type),
			Status:      string(t.Status),
			ReferenceID: t.ReferenceID,
			Description: t.Description,
			Metadata:    t.Metadata,
			CreatedAt:   t.CreatedAt,
		})
	}
	return out, nil
}
