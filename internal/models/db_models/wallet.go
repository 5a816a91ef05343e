package db_models

import (
	"github.com/google/uuid"
)

// Wallet is the single prepaid balance per company. Rows appear implicitly on
// first credit; balance mutations always go through conditional SQL paired
// with a WalletTransaction insert in the same DB transaction.
type Wallet struct {
	BaseModel
	CompanyID    uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	BalanceMinor int64     `gorm:"not null;default:0"`
}
