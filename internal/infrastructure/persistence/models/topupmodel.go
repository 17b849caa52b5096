package models

import "time"

// TopUpModel is the persistence shape of a coin top-up request. ProviderRef
// is the idempotency key the payment provider echoes back on settlement.
type TopUpModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"uniqueIndex;not null;size:32"`
	UserID      uint   `gorm:"not null;index"`
	Amount      int64  `gorm:"not null"`
	Status      string `gorm:"not null;default:pending;size:20"`
	ProviderRef string `gorm:"uniqueIndex;not null;size:64"`
	CreatedAt   time.Time
	SettledAt   *time.Time
}

func (TopUpModel) TableName() string {
	return "topups"
}
