package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusPastDue  SubscriptionStatus = "past_due"
	SubStatusCanceled SubscriptionStatus = "canceled"
)

type Company struct {
	BaseModel
	Name    string
	AdminID uuid.UUID `gorm:"index"`

	// Where billing notices (renewal failures) are delivered.
	BillingEmail string

	// Seat-based licensing. TotalLicenses drives the monthly auto-debit cost.
	TotalLicenses          int                `gorm:"default:0"`
	SubscriptionValidUntil *int64             `gorm:"index"`
	SubscriptionStatus     SubscriptionStatus `gorm:"index;default:active"`

	// One-time purchased capabilities, keyed by feature name.
	Features datatypes.JSONMap `gorm:"type:jsonb;default:'{}'"`
}
