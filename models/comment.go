// models/comment.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid"`
	FeedID   string `json:"feed_id" gorm:"index;not null"`
	PlayerID string `json:"player_id" gorm:"index;not null"`

	Comment string `json:"comment" gorm:"not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
