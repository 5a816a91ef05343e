package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TxnStatus string

const (
	TxnStatusPending TxnStatus = "pending"
	TxnStatusSuccess TxnStatus = "success"
	TxnStatusFailed  TxnStatus = "failed"
)

type TxnType string

const (
	TxnCreditRecharge         TxnType = "credit_recharge"
	TxnCreditGiftCard         TxnType = "credit_gift_card"
	TxnCreditManualAdjustment TxnType = "credit_manual_adjustment"
	TxnDebitLicensePurchase   TxnType = "debit_license_purchase"
	TxnDebitAutoRenewal       TxnType = "debit_auto_renewal"
	TxnDebitManualAdjustment  TxnType = "debit_manual_adjustment"
)

// IsCredit reports whether the type increases the wallet balance.
func (t TxnType) IsCredit() bool {
	switch t {
	case TxnCreditRecharge, TxnCreditGiftCard, TxnCreditManualAdjustment:
		return true
	}
	return false
}

// SignedAmount applies the type's sign to a stored (always positive) amount.
func (t TxnType) SignedAmount(amountMinor int64) int64 {
	if t.IsCredit() {
		return amountMinor
	}
	return -amountMinor
}

// WalletTransaction is one ledger entry. Rows are immutable once status is
// success, except that metadata may be appended (e.g. the gateway payment id
// recorded at settlement).
type WalletTransaction struct {
	BaseModel
	CompanyID   uuid.UUID `gorm:"type:uuid;index"`
	AmountMinor int64     `gorm:"not null"`
	Type        TxnType   `gorm:"index"`
	Status      TxnStatus `gorm:"index"`

	// Gateway order id for recharges; unique so a settlement callback can
	// match at most one pending row.
	ReferenceID *string `gorm:"uniqueIndex"`

	Description string
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;default:'{}'"`
}
