package db_models

import (
	"github.com/google/uuid"
)

// GiftCard is a single-use code. The false→true flip of IsRedeemed is claimed
// with a conditional update verified by affected-row count, so two concurrent
// redeemers can never both credit.
type GiftCard struct {
	BaseModel
	Code        string `gorm:"uniqueIndex"`
	AmountMinor int64  `gorm:"not null"`
	Active      bool   `gorm:"default:true"`

	IsRedeemed bool       `gorm:"default:false"`
	RedeemedBy *uuid.UUID `gorm:"type:uuid"`
	RedeemedAt *int64
	ExpiresAt  *int64
}
