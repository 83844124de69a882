package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"region-quest-system/models"
)

type FeedService struct {
	DB *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{DB: db}
}

type FeedInput struct {
	Content   string `json:"content"`
	Image1URL string `json:"image1_url"`
	Image2URL string `json:"image2_url"`
	Image3URL string `json:"image3_url"`
}

type FeedResult struct {
	OK      bool         `json:"ok"`
	Message string       `json:"message,omitempty"`
	Row     *models.Feed `json:"row,omitempty"`
}

// FeedQuest completes a feed-write quest: the post and the completion record
// are written in one transaction. A repeat attempt keeps the original feed.
func (s *FeedService) FeedQuest(questID, playerID string, in FeedInput) FeedResult {
	if in.Content == "" {
		return FeedResult{OK: false, Message: "내용을 입력해주세요."}
	}

	var quest models.Quest
	if err := s.DB.Where("id = ?", questID).First(&quest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FeedResult{OK: false, Message: "요청하신 퀘스트를 찾을 수 없습니다."}
		}
		return FeedResult{OK: false, Message: "피드를 작성할 수 없습니다."}
	}
	if quest.Type != models.QuestTypeFeed {
		return FeedResult{OK: false, Message: "피드 작성 퀘스트가 아닙니다."}
	}

	feed := models.Feed{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		QuestID:   questID,
		RegionID:  quest.RegionID,
		Content:   in.Content,
		Image1URL: in.Image1URL,
		Image2URL: in.Image2URL,
		Image3URL: in.Image3URL,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		complete := models.Complete{
			ID:       uuid.NewString(),
			PlayerID: playerID,
			QuestID:  questID,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}, {Name: "quest_id"}},
			DoNothing: true,
		}).Create(&complete)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCompleted
		}
		return tx.Create(&feed).Error
	})
	if errors.Is(err, ErrAlreadyCompleted) {
		return FeedResult{OK: false, Message: "퀘스트를 이미 완료하였습니다."}
	}
	if err != nil {
		return FeedResult{OK: false, Message: "피드를 작성할 수 없습니다."}
	}
	return FeedResult{OK: true, Row: &feed}
}
