// models/quest.go
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	QuestTypeTime = "time" // arrive before a deadline
	QuestTypeFeed = "feed" // write a feed post at the spot
	QuestTypeMob  = "mob"  // monster battle
)

type Quest struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid"`
	RegionID string `json:"region_id" gorm:"index;not null"`

	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      int    `json:"reward"`
	Difficulty  int    `json:"difficulty"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	// Only time-attack quests carry a deadline.
	TimeUntil *time.Time `json:"time_until,omitempty"`

	Completes []Complete `json:"-" gorm:"foreignKey:QuestID"`
	Feeds     []Feed     `json:"-" gorm:"foreignKey:QuestID"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// QuestCategory is one entry of the procedural assignment table. Reward and
// difficulty are fixed per type; DeadlineHour is zero for untimed types.
type QuestCategory struct {
	Type         string
	Title        string
	Description  string
	Reward       int
	Difficulty   int
	DeadlineHour int
}

// QuestCategories maps a random draw in [1,9] to quest content. Categories
// 1-3 are time attacks due at 9/14/21 o'clock, 4-6 are feed prompts, 7-9 are
// monster battles.
var QuestCategories = map[int]QuestCategory{
	1: {Type: QuestTypeTime, Title: "타임어택", Description: deadlineDescription(9), Reward: 5, Difficulty: 1, DeadlineHour: 9},
	2: {Type: QuestTypeTime, Title: "타임어택", Description: deadlineDescription(14), Reward: 5, Difficulty: 1, DeadlineHour: 14},
	3: {Type: QuestTypeTime, Title: "타임어택", Description: deadlineDescription(21), Reward: 5, Difficulty: 1, DeadlineHour: 21},
	4: {Type: QuestTypeFeed, Title: "땅땅 쓰기", Description: "특별한 기억이 있는 장소인가요? 여러분의 경험을 들려주세요. 낯선 곳이라면 첫번째 기억을 담으러 나서볼까요?", Reward: 8, Difficulty: 2},
	5: {Type: QuestTypeFeed, Title: "땅땅 쓰기", Description: "동네 사람들에게 추천해 주고 싶은 장소인가요? 여러분의 리뷰를 남겨주세요.", Reward: 8, Difficulty: 2},
	6: {Type: QuestTypeFeed, Title: "땅땅 쓰기", Description: "오늘 하루는 어떠셨나요? 무심코 지나친 무채색의 장소를 여러분의 감정으로 채워주세요.", Reward: 8, Difficulty: 2},
	7: {Type: QuestTypeMob, Title: "몬스터 대결", Description: "대결에서 승리하여 몬스터로부터 우리 동네를 지켜주세요.", Reward: 10, Difficulty: 3},
	8: {Type: QuestTypeMob, Title: "몬스터 대결", Description: "대결에서 승리하여 몬스터로부터 우리 동네를 지켜주세요.", Reward: 10, Difficulty: 3},
	9: {Type: QuestTypeMob, Title: "몬스터 대결", Description: "대결에서 승리하여 몬스터로부터 우리 동네를 지켜주세요.", Reward: 10, Difficulty: 3},
}

func deadlineDescription(hour int) string {
	return fmt.Sprintf("%d시까지 도착해서 땅땅 도장을 찍어주세요.", hour)
}
