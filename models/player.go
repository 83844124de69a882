// models/player.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type Player struct {
	ID         string `json:"id" gorm:"primaryKey;type:uuid"`
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Nickname   string `json:"nickname" gorm:"index;not null"`
	Password   string `json:"-" gorm:"not null"` // bcrypt hash
	MBTI       string `json:"mbti"`
	ProfileImg string `json:"profile_img"`

	Level     int `json:"level" gorm:"default:1"`
	ExpPoints int `json:"exp_points" gorm:"default:0"`

	Completes []Complete `json:"-" gorm:"foreignKey:PlayerID"`
	Feeds     []Feed     `json:"-" gorm:"foreignKey:PlayerID"`
	Comments  []Comment  `json:"-" gorm:"foreignKey:PlayerID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
