// models/feed.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Feed is the post a player writes to complete a feed-write quest. Image URLs
// point at files already uploaded elsewhere; this service only stores links.
type Feed struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid"`
	PlayerID string `json:"player_id" gorm:"index;not null"`
	QuestID  string `json:"quest_id" gorm:"index;not null"`
	RegionID string `json:"region_id" gorm:"index"`

	Content   string `json:"content" gorm:"not null"`
	Image1URL string `json:"image1_url"`
	Image2URL string `json:"image2_url"`
	Image3URL string `json:"image3_url"`

	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:FeedID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
