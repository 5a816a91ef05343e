package db_models

import (
	"github.com/google/uuid"
)

// FeatureUnlock records a one-time feature purchase. The composite unique
// index is the authoritative guard against double unlocks; the service-level
// existence check only exists to fail fast before debiting.
type FeatureUnlock struct {
	BaseModel
	CompanyID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_company_feature"`
	FeatureName     string    `gorm:"uniqueIndex:idx_company_feature"`
	AmountPaidMinor int64     `gorm:"not null"`
	UnlockedBy      uuid.UUID `gorm:"type:uuid"`
}
