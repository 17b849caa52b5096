package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NovelModel is the persistence shape of a novel. Roster holds the staff
// identifier list as a JSON array mixing numeric user IDs and usernames.
type NovelModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"uniqueIndex;not null;size:32"`
	Title       string `gorm:"not null;size:255"`
	Slug        string `gorm:"uniqueIndex;not null;size:255"`
	Description string `gorm:"type:text"`
	CreatorID   uint   `gorm:"not null;index"`
	Roster      datatypes.JSON
	Balance     int64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (NovelModel) TableName() string {
	return "novels"
}
