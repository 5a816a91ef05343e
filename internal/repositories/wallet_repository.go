package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadflow/internal/models/db_models"
	"leadflow/pkg/utils"
)

// WalletRepository owns every balance mutation. Credits and debits write the
// wallet row and the ledger row inside one DB transaction, so the balance can
// never drift from the sum of success entries. Debits use a conditional
// decrement verified by affected-row count instead of check-then-write.
type WalletRepository interface {
	FindByCompany(ctx context.Context, companyID uuid.UUID) (*db_models.Wallet, error)
	CreditWithLog(ctx context.Context, companyID uuid.UUID, amountMinor int64, txn *db_models.WalletTransaction) (int64, error)
	DebitWithLog(ctx context.Context, companyID uuid.UUID, amountMinor int64, txn *db_models.WalletTransaction) (int64, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (w *walletRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) (*db_models.Wallet, error) {
	var wallet db_models.Wallet
	err := w.db.WithContext(ctx).First(&wallet, "company_id = ?", companyID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &wallet, nil
}

func (w *walletRepository) CreditWithLog(ctx context.Context, companyID uuid.UUID, amountMinor int64, txn *db_models.WalletTransaction) (int64, error) {
	if amountMinor <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", utils.ErrValidation)
	}

	var newBalance int64
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallet := &db_models.Wallet{CompanyID: companyID, BalanceMinor: amountMinor}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"balance_minor": gorm.Expr("wallets.balance_minor + ?", amountMinor),
				"updated_at":    time.Now().Unix(),
			}),
		}).Create(wallet).Error; err != nil {
			return fmt.Errorf("upsert wallet: %w", err)
		}

		txn.CompanyID = companyID
		txn.AmountMinor = amountMinor
		txn.Status = db_models.TxnStatusSuccess
		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("log credit: %w", err)
		}

		return tx.Model(&db_models.Wallet{}).
			Select("balance_minor").
			Where("company_id = ?", companyID).
			Scan(&newBalance).Error
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

func (w *walletRepository) DebitWithLog(ctx context.Context, companyID uuid.UUID, amountMinor int64, txn *db_models.WalletTransaction) (int64, error) {
	if amountMinor <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive", utils.ErrValidation)
	}

	var newBalance int64
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db_models.Wallet{}).
			Where("company_id = ? AND balance_minor >= ?", companyID, amountMinor).
			Updates(map[string]interface{}{
				"balance_minor": gorm.Expr("balance_minor - ?", amountMinor),
				"updated_at":    time.Now().Unix(),
			})
		if res.Error != nil {
			return fmt.Errorf("debit wallet: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Either no wallet row or not enough balance; report the current
			// figure either way.
			var current int64
			if err := tx.Model(&db_models.Wallet{}).
				Select("coalesce(max(balance_minor), 0)").
				Where("company_id = ?", companyID).
				Scan(&current).Error; err != nil {
				return err
			}
			return &utils.InsufficientFundsError{CurrentBalance: current, Required: amountMinor}
		}

		txn.CompanyID = companyID
		txn.AmountMinor = amountMinor
		txn.Status = db_models.TxnStatusSuccess
		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("log debit: %w", err)
		}

		return tx.Model(&db_models.Wallet{}).
			Select("balance_minor").
			Where("company_id = ?", companyID).
			Scan(&newBalance).Error
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}
