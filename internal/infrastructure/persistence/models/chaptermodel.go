package models

import (
	"time"

	"gorm.io/gorm"
)

// ChapterModel is the persistence shape of a chapter. Body holds sanitized
// HTML and is deliberately large; repository reads omit it unless asked.
type ChapterModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"uniqueIndex;not null;size:32"`
	NovelID   uint   `gorm:"not null;index:idx_chapters_novel_mode"`
	VolumeID  uint   `gorm:"not null;index"`
	Title     string `gorm:"not null;size:255"`
	Order     int    `gorm:"column:position;not null"`
	Mode      string `gorm:"not null;default:draft;size:20;index:idx_chapters_novel_mode"`
	Price     int64  `gorm:"not null;default:0"`
	Body      string `gorm:"type:longtext"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ChapterModel) TableName() string {
	return "chapters"
}
