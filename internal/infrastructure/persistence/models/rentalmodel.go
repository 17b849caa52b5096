package models

import "time"

// RentalModel is the persistence shape of a rental. Rentals are immutable
// and never soft-deleted: expiry is derived from EndTime at read time.
type RentalModel struct {
	ID        uint      `gorm:"primarykey"`
	SID       string    `gorm:"uniqueIndex;not null;size:32"`
	UserID    uint      `gorm:"not null;index:idx_rentals_user_volume"`
	VolumeID  uint      `gorm:"not null;index:idx_rentals_user_volume"`
	StartTime time.Time `gorm:"not null"`
	EndTime   time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (RentalModel) TableName() string {
	return "rentals"
}
