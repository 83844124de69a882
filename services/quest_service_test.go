package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"region-quest-system/models"
)

var testRegion = RegionName{RegionSi: "서울특별시", RegionGu: "강남구", RegionDong: "역삼동"}

func newTestQuestService(t *testing.T, db *gorm.DB) (*QuestService, *fakeReverseGeocoder, *fakeDirectory, *fakeGeocoder) {
	t.Helper()
	rev := &fakeReverseGeocoder{name: testRegion}
	dir := &fakeDirectory{total: 150, pages: 2}
	geo := &fakeGeocoder{}
	clock := NewTodayClock(time.UTC)
	synth := NewSynthesizer(dir, geo, 20, time.UTC)
	return NewQuestService(db, rev, dir, synth, clock), rev, dir, geo
}

func seedPlayer(t *testing.T, db *gorm.DB) models.Player {
	t.Helper()
	player := models.Player{
		ID:       uuid.NewString(),
		Email:    uuid.NewString() + "@test.local",
		Nickname: "tester",
		Password: "hashed",
		Level:    1,
	}
	require.NoError(t, db.Create(&player).Error)
	return player
}

func seedQuest(t *testing.T, db *gorm.DB, questType string) models.Quest {
	t.Helper()
	region := models.Region{
		ID:         uuid.NewString(),
		Date:       "2024-01-01",
		RegionSi:   testRegion.RegionSi,
		RegionGu:   testRegion.RegionGu,
		RegionDong: uuid.NewString(), // unique dong per seed keeps the index happy
		TotalCount: 150,
		PageCount:  2,
	}
	require.NoError(t, db.Create(&region).Error)

	cat := models.QuestCategories[7]
	if questType == models.QuestTypeFeed {
		cat = models.QuestCategories[4]
	}
	quest := models.Quest{
		ID:          uuid.NewString(),
		RegionID:    region.ID,
		Type:        cat.Type,
		Title:       cat.Title,
		Description: cat.Description,
		Reward:      cat.Reward,
		Difficulty:  cat.Difficulty,
		Lat:         37.4979,
		Lng:         127.0276,
	}
	require.NoError(t, db.Create(&quest).Error)
	return quest
}

func TestResolveQuestsSynthesizesOnMiss(t *testing.T) {
	db := newTestDB(t)
	svc, _, dir, _ := newTestQuestService(t, db)

	result := svc.ResolveQuests(context.Background(), 37.4979, 127.0276, "")
	require.True(t, result.OK, result.Message)
	require.Equal(t, &testRegion, result.CurrentRegion)
	require.Len(t, result.Rows, 2, "one quest per directory page")
	require.EqualValues(t, 1, dir.summaryCalls)

	var regionCount int64
	require.NoError(t, db.Model(&models.Region{}).Count(&regionCount).Error)
	require.EqualValues(t, 1, regionCount)

	var stored models.Region
	require.NoError(t, db.First(&stored).Error)
	require.Equal(t, 150, stored.TotalCount)
	require.Equal(t, 2, stored.PageCount)
	require.Equal(t, svc.Clock.Today(), stored.Date)
}

func TestResolveQuestsCacheHitSkipsProviders(t *testing.T) {
	db := newTestDB(t)
	svc, _, _, _ := newTestQuestService(t, db)

	first := svc.ResolveQuests(context.Background(), 37.4979, 127.0276, "")
	require.True(t, first.OK, first.Message)

	// Same DB and clock, but any directory or geocode call now panics.
	cached := NewQuestService(
		db,
		&fakeReverseGeocoder{name: testRegion},
		panickingDirectory{},
		NewSynthesizer(panickingDirectory{}, panickingGeocoder{}, 20, time.UTC),
		svc.Clock,
	)

	second := cached.ResolveQuests(context.Background(), 37.4979, 127.0276, "")
	require.True(t, second.OK, second.Message)
	require.Len(t, second.Rows, len(first.Rows))
	for i := range first.Rows {
		require.Equal(t, first.Rows[i].ID, second.Rows[i].ID)
	}
}

func TestResolveQuestsConcurrentMissesCreateOneRegion(t *testing.T) {
	db := newTestDB(t)
	svc, _, _, _ := newTestQuestService(t, db)

	var wg sync.WaitGroup
	results := make([]QuestListResult, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.ResolveQuests(context.Background(), 37.4979, 127.0276, "")
		}(i)
	}
	wg.Wait()

	require.True(t, results[0].OK, results[0].Message)
	require.True(t, results[1].OK, results[1].Message)

	var regionCount int64
	require.NoError(t, db.Model(&models.Region{}).Count(&regionCount).Error)
	require.EqualValues(t, 1, regionCount, "composite unique index arbitrates the race")

	// Both callers must see the winner's quest set.
	require.Len(t, results[1].Rows, len(results[0].Rows))
	for i := range results[0].Rows {
		require.Equal(t, results[0].Rows[i].ID, results[1].Rows[i].ID)
	}
}

func TestResolveQuestsRejectsBadCoordinates(t *testing.T) {
	db := newTestDB(t)
	svc, rev, _, _ := newTestQuestService(t, db)

	result := svc.ResolveQuests(context.Background(), 999, 127.0276, "")
	require.False(t, result.OK)
	require.NotEmpty(t, result.Message)
	require.EqualValues(t, 0, rev.calls, "validation happens before any provider call")
}

func TestResolveQuestsUpstreamFailure(t *testing.T) {
	db := newTestDB(t)
	svc, rev, _, _ := newTestQuestService(t, db)
	rev.err = ErrUpstreamUnavailable

	result := svc.ResolveQuests(context.Background(), 37.4979, 127.0276, "")
	require.False(t, result.OK)
	require.NotEmpty(t, result.Message)
}

func TestCompleteQuestIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc, _, _, _ := newTestQuestService(t, db)
	player := seedPlayer(t, db)
	quest := seedQuest(t, db, models.QuestTypeMob)

	first := svc.CompleteQuest(quest.ID, player.ID)
	require.True(t, first.OK, first.Message)

	second := svc.CompleteQuest(quest.ID, player.ID)
	require.False(t, second.OK)
	require.Equal(t, "퀘스트를 이미 완료하였습니다.", second.Message)

	var count int64
	require.NoError(t, db.Model(&models.Complete{}).
		Where("player_id = ? AND quest_id = ?", player.ID, quest.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCompleteQuestUnknownQuestOrPlayer(t *testing.T) {
	db := newTestDB(t)
	svc, _, _, _ := newTestQuestService(t, db)
	player := seedPlayer(t, db)
	quest := seedQuest(t, db, models.QuestTypeMob)

	require.False(t, svc.CompleteQuest(uuid.NewString(), player.ID).OK)
	require.False(t, svc.CompleteQuest(quest.ID, uuid.NewString()).OK)
}

func TestGetQuestAnnotatesCompletion(t *testing.T) {
	db := newTestDB(t)
	svc, _, _, _ := newTestQuestService(t, db)
	player := seedPlayer(t, db)
	quest := seedQuest(t, db, models.QuestTypeMob)

	require.True(t, svc.CompleteQuest(quest.ID, player.ID).OK)

	done := svc.GetQuest(quest.ID, player.ID)
	require.True(t, done.OK)
	require.True(t, done.Row.Completed)

	anon := svc.GetQuest(quest.ID, "")
	require.True(t, anon.OK)
	require.False(t, anon.Row.Completed)

	missing := svc.GetQuest(uuid.NewString(), player.ID)
	require.False(t, missing.OK)
}
