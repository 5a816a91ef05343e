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

type TransactionRepository interface {
	CreatePending(ctx context.Context, txn *db_models.WalletTransaction) error
	// SettleRecharge flips the unique pending row for referenceID to success
	// and credits the wallet, all in one DB transaction. A missing or already
	// settled row returns utils.ErrNotFound.
	SettleRecharge(ctx context.Context, referenceID, paymentID string) (*db_models.WalletTransaction, int64, error)
	ExpirePending(ctx context.Context, before int64) (int64, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]db_models.WalletTransaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

func (t *transactionRepository) CreatePending(ctx context.Context, txn *db_models.WalletTransaction) error {
	txn.Status = db_models.TxnStatusPending
	return t.db.WithContext(ctx).Create(txn).Error
}

func (t *transactionRepository) SettleRecharge(ctx context.Context, referenceID, paymentID string) (*db_models.WalletTransaction, int64, error) {
	var settled db_models.WalletTransaction
	var newBalance int64

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn db_models.WalletTransaction
		err := tx.Where("reference_id = ? AND status = ?", referenceID, db_models.TxnStatusPending).
			First(&txn).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transaction not found or already processed", utils.ErrNotFound)
			}
			return err
		}

		if txn.Metadata == nil {
			txn.Metadata = map[string]interface{}{}
		}
		txn.Metadata["razorpay_payment_id"] = paymentID

		// Guard the flip on status so a concurrent settlement loses cleanly.
		res := tx.Model(&db_models.WalletTransaction{}).
			Where("id = ? AND status = ?", txn.ID, db_models.TxnStatusPending).
			Updates(map[string]interface{}{
				"status":     db_models.TxnStatusSuccess,
				"metadata":   txn.Metadata,
				"updated_at": time.Now().Unix(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: transaction not found or already processed", utils.ErrNotFound)
		}

		wallet := &db_models.Wallet{CompanyID: txn.CompanyID, BalanceMinor: txn.AmountMinor}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"balance_minor": gorm.Expr("wallets.balance_minor + ?", txn.AmountMinor),
				"updated_at":    time.Now().Unix(),
			}),
		}).Create(wallet).Error; err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		txn.Status = db_models.TxnStatusSuccess
		settled = txn

		return tx.Model(&db_models.Wallet{}).
			Select("balance_minor").
			Where("company_id = ?", txn.CompanyID).
			Scan(&newBalance).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return &settled, newBalance, nil
}

func (t *transactionRepository) ExpirePending(ctx context.Context, before int64) (int64, error) {
	res := t.db.WithContext(ctx).Model(&db_models.WalletTransaction{}).
		Where("status = ? AND type = ? AND created_at < ?",
			db_models.TxnStatusPending, db_models.TxnCreditRecharge, before).
		Updates(map[string]interface{}{
			"status":     db_models.TxnStatusFailed,
			"updated_at": time.Now().Unix(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (t *transactionRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]db_models.WalletTransaction, error) {
	var txns []db_models.WalletTransaction
	err := t.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
