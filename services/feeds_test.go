package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"region-quest-system/models"
)

func TestFeedQuestCreatesFeedAndCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)
	player := seedPlayer(t, db)
	quest := seedQuest(t, db, models.QuestTypeFeed)

	result := svc.FeedQuest(quest.ID, player.ID, FeedInput{
		Content:   "처음 와 본 동네인데 골목이 참 예뻐요.",
		Image1URL: "https://img.test.local/1.jpg",
	})
	require.True(t, result.OK, result.Message)
	require.Equal(t, quest.RegionID, result.Row.RegionID)

	var completeCount int64
	require.NoError(t, db.Model(&models.Complete{}).
		Where("player_id = ? AND quest_id = ?", player.ID, quest.ID).
		Count(&completeCount).Error)
	require.EqualValues(t, 1, completeCount)

	// A second attempt is rejected and writes no second feed.
	again := svc.FeedQuest(quest.ID, player.ID, FeedInput{Content: "또 왔어요."})
	require.False(t, again.OK)
	require.Equal(t, "퀘스트를 이미 완료하였습니다.", again.Message)

	var feedCount int64
	require.NoError(t, db.Model(&models.Feed{}).
		Where("player_id = ? AND quest_id = ?", player.ID, quest.ID).
		Count(&feedCount).Error)
	require.EqualValues(t, 1, feedCount)
}

func TestFeedQuestRejectsWrongTypeAndEmptyContent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedService(db)
	player := seedPlayer(t, db)
	mob := seedQuest(t, db, models.QuestTypeMob)
	feed := seedQuest(t, db, models.QuestTypeFeed)

	require.False(t, svc.FeedQuest(mob.ID, player.ID, FeedInput{Content: "내용"}).OK)
	require.False(t, svc.FeedQuest(feed.ID, player.ID, FeedInput{}).OK)
	require.False(t, svc.FeedQuest(uuid.NewString(), player.ID, FeedInput{Content: "내용"}).OK)
}

func TestCommentLifecycle(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)
	comments := NewCommentService(db)
	author := seedPlayer(t, db)
	other := seedPlayer(t, db)
	quest := seedQuest(t, db, models.QuestTypeFeed)

	posted := feeds.FeedQuest(quest.ID, author.ID, FeedInput{Content: "동네 자랑"})
	require.True(t, posted.OK, posted.Message)

	created := comments.CreateComment(posted.Row.ID, other.ID, "여기 진짜 좋죠")
	require.True(t, created.OK, created.Message)

	// Only the author may edit or delete.
	require.False(t, comments.UpdateComment(created.Row.ID, author.ID, "수정").OK)
	updated := comments.UpdateComment(created.Row.ID, other.ID, "여기 정말 좋죠")
	require.True(t, updated.OK, updated.Message)
	require.Equal(t, "여기 정말 좋죠", updated.Row.Comment)

	require.False(t, comments.DeleteComment(created.Row.ID, author.ID).OK)
	require.True(t, comments.DeleteComment(created.Row.ID, other.ID).OK)

	// Soft deleted: gone from default queries, still in the table.
	require.False(t, comments.UpdateComment(created.Row.ID, other.ID, "다시").OK)
	var raw int64
	require.NoError(t, db.Unscoped().Model(&models.Comment{}).
		Where("id = ?", created.Row.ID).Count(&raw).Error)
	require.EqualValues(t, 1, raw)
}

func TestCreateCommentUnknownFeed(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentService(db)
	player := seedPlayer(t, db)

	require.False(t, comments.CreateComment(uuid.NewString(), player.ID, "댓글").OK)
}
