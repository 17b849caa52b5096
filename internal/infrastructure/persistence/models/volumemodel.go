package models

import (
	"time"

	"gorm.io/gorm"
)

// VolumeModel is the persistence shape of a volume.
type VolumeModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"uniqueIndex;not null;size:32"`
	NovelID   uint   `gorm:"not null;index:idx_volumes_novel_order"`
	Title     string `gorm:"not null;size:255"`
	Order     int    `gorm:"column:position;not null;index:idx_volumes_novel_order"`
	Mode      string `gorm:"not null;default:draft;size:20"`
	Price     int64  `gorm:"not null;default:0"`
	RentPrice int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (VolumeModel) TableName() string {
	return "volumes"
}
