package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"region-quest-system/models"
)

func TestTodayClockSnapshot(t *testing.T) {
	clock := NewTodayClock(time.UTC)

	today, err := time.ParseInLocation(dateLayout, clock.Today(), time.UTC)
	require.NoError(t, err)

	yesterday, err := time.ParseInLocation(dateLayout, clock.Yesterday(), time.UTC)
	require.NoError(t, err)
	require.Equal(t, today.AddDate(0, 0, -1), yesterday)

	// Repeated reads see the same snapshot until Advance runs.
	require.Equal(t, clock.Today(), clock.Today())
}

func TestRolloverRegionsCarriesYesterdayForward(t *testing.T) {
	db := newTestDB(t)
	svc, _, dir, _ := newTestQuestService(t, db)

	old := models.Region{
		ID:         uuid.NewString(),
		Date:       svc.Clock.Yesterday(),
		RegionSi:   testRegion.RegionSi,
		RegionGu:   testRegion.RegionGu,
		RegionDong: testRegion.RegionDong,
		TotalCount: 150,
		PageCount:  2,
	}
	require.NoError(t, db.Create(&old).Error)

	require.NoError(t, svc.RolloverRegions(context.Background()))

	var fresh models.Region
	require.NoError(t, db.Where("date = ? AND region_dong = ?",
		svc.Clock.Today(), testRegion.RegionDong).First(&fresh).Error)
	require.Equal(t, 150, fresh.TotalCount, "counts copied from yesterday's row")
	require.Equal(t, 2, fresh.PageCount)
	require.EqualValues(t, 0, dir.summaryCalls, "rollover must not re-fetch the directory summary")

	var quests []models.Quest
	require.NoError(t, db.Where("region_id = ?", fresh.ID).Find(&quests).Error)
	require.Len(t, quests, 2)

	// Second run the same day is a no-op.
	require.NoError(t, svc.RolloverRegions(context.Background()))

	var regionCount int64
	require.NoError(t, db.Model(&models.Region{}).
		Where("date = ?", svc.Clock.Today()).Count(&regionCount).Error)
	require.EqualValues(t, 1, regionCount)

	var questCount int64
	require.NoError(t, db.Model(&models.Quest{}).
		Where("region_id = ?", fresh.ID).Count(&questCount).Error)
	require.EqualValues(t, 2, questCount)
}

func TestRolloverSkipsRegionsAlreadyCreatedToday(t *testing.T) {
	db := newTestDB(t)
	svc, _, _, geo := newTestQuestService(t, db)

	// Region already resolved on demand earlier today.
	result := svc.ResolveQuests(context.Background(), 37.4979, 127.0276, "")
	require.True(t, result.OK, result.Message)

	old := models.Region{
		ID:         uuid.NewString(),
		Date:       svc.Clock.Yesterday(),
		RegionSi:   testRegion.RegionSi,
		RegionGu:   testRegion.RegionGu,
		RegionDong: testRegion.RegionDong,
		TotalCount: 150,
		PageCount:  2,
	}
	require.NoError(t, db.Create(&old).Error)

	geocodesBefore := geo.calls
	require.NoError(t, svc.RolloverRegions(context.Background()))
	require.Equal(t, geocodesBefore, geo.calls, "existing today-region is skipped entirely")

	var regionCount int64
	require.NoError(t, db.Model(&models.Region{}).
		Where("date = ?", svc.Clock.Today()).Count(&regionCount).Error)
	require.EqualValues(t, 1, regionCount)
}
