// models/complete.go
package models

import "time"

// Complete records that a player finished a quest. The composite unique index
// makes a second completion attempt a conflict instead of a duplicate row.
type Complete struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid"`
	PlayerID string `json:"player_id" gorm:"uniqueIndex:idx_player_quest,priority:1;not null"`
	QuestID  string `json:"quest_id" gorm:"uniqueIndex:idx_player_quest,priority:2;not null"`

	CreatedAt time.Time `json:"created_at"`
}
