package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"region-quest-system/models"
)

type CommentService struct {
	DB *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{DB: db}
}

type CommentResult struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message,omitempty"`
	Row     *models.Comment `json:"row,omitempty"`
}

func (s *CommentService) CreateComment(feedID, playerID, text string) CommentResult {
	if text == "" {
		return CommentResult{OK: false, Message: "댓글 내용을 입력해주세요."}
	}

	var feed models.Feed
	if err := s.DB.Where("id = ?", feedID).First(&feed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommentResult{OK: false, Message: "해당 피드를 찾을 수 없습니다."}
		}
		return CommentResult{OK: false, Message: "댓글을 작성할 수 없습니다."}
	}

	comment := models.Comment{
		ID:       uuid.NewString(),
		FeedID:   feedID,
		PlayerID: playerID,
		Comment:  text,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return CommentResult{OK: false, Message: "댓글을 작성할 수 없습니다."}
	}
	return CommentResult{OK: true, Row: &comment}
}

func (s *CommentService) UpdateComment(commentID, playerID, text string) CommentResult {
	if text == "" {
		return CommentResult{OK: false, Message: "댓글 내용을 입력해주세요."}
	}

	var comment models.Comment
	if err := s.DB.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommentResult{OK: false, Message: "해당 댓글을 찾을 수 없습니다."}
		}
		return CommentResult{OK: false, Message: "댓글을 수정할 수 없습니다."}
	}
	if comment.PlayerID != playerID {
		return CommentResult{OK: false, Message: "본인의 댓글만 수정할 수 있습니다."}
	}

	comment.Comment = text
	if err := s.DB.Save(&comment).Error; err != nil {
		return CommentResult{OK: false, Message: "댓글을 수정할 수 없습니다."}
	}
	return CommentResult{OK: true, Row: &comment}
}

func (s *CommentService) DeleteComment(commentID, playerID string) OpResult {
	var comment models.Comment
	if err := s.DB.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OpResult{OK: false, Message: "해당 댓글을 찾을 수 없습니다."}
		}
		return OpResult{OK: false, Message: "댓글을 삭제할 수 없습니다."}
	}
	if comment.PlayerID != playerID {
		return OpResult{OK: false, Message: "본인의 댓글만 삭제할 수 있습니다."}
	}

	if err := s.DB.Delete(&comment).Error; err != nil {
		return OpResult{OK: false, Message: "댓글을 삭제할 수 없습니다."}
	}
	return OpResult{OK: true}
}
