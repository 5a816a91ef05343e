package db_models

// DiscountCode is a percentage-off promotion applied to recharges. Validation
// is read-only; UsesCount is incremented exactly once when a recharge carrying
// the code settles.
type DiscountCode struct {
	BaseModel
	Code               string `gorm:"uniqueIndex"`
	DiscountPercentage int    `gorm:"not null"`
	Active             bool   `gorm:"default:true"`

	ValidUntil *int64
	TotalUses  *int // nil = unlimited
	UsesCount  int  `gorm:"default:0"`
}
