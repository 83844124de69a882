// services/scheduler.go
package services

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"region-quest-system/models"
)

const dateLayout = "2006-01-02"

// TodayClock holds the process-wide calendar-day snapshot. The midnight job
// is the only writer; every lookup and the rollover job read the stored
// value, so all cache keys within one logical day agree even right at the
// midnight boundary.
type TodayClock struct {
	loc *time.Location
	day atomic.Value // string in dateLayout
}

func NewTodayClock(loc *time.Location) *TodayClock {
	if loc == nil {
		loc = time.Local
	}
	c := &TodayClock{loc: loc}
	c.Advance()
	return c
}

func (c *TodayClock) Today() string {
	return c.day.Load().(string)
}

// Yesterday is the calendar day before the snapshot, not before wall-clock
// now — the rollover job must pair with whatever day the snapshot says.
func (c *TodayClock) Yesterday() string {
	t, err := time.ParseInLocation(dateLayout, c.Today(), c.loc)
	if err != nil {
		t = time.Now().In(c.loc)
	}
	return t.AddDate(0, 0, -1).Format(dateLayout)
}

// Advance re-reads the wall clock. Called once at construction, then only by
// the midnight job.
func (c *TodayClock) Advance() {
	c.day.Store(time.Now().In(c.loc).Format(dateLayout))
}

func (c *TodayClock) Location() *time.Location {
	return c.loc
}

// StartQuestScheduler starts the two daily jobs: the midnight snapshot that
// advances the shared date, and the 02:00 rollover that carries yesterday's
// regions into today.
func (s *QuestService) StartQuestScheduler() {
	sched, err := gocron.NewScheduler(gocron.WithLocation(s.Clock.Location()))
	if err != nil {
		log.Printf("[Scheduler] init failed: %v", err)
		return
	}
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(s.Clock.Advance),
	)

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
		gocron.NewTask(func() {
			if err := s.RolloverRegions(context.Background()); err != nil {
				log.Printf("[Scheduler] rollover failed: %v", err)
			}
		}),
	)
}

// RolloverRegions regenerates quests for every region recorded yesterday that
// has no counterpart today. The counts stored on the old row are reused; the
// directory summary is never re-fetched. Safe to run more than once per day.
func (s *QuestService) RolloverRegions(ctx context.Context) error {
	today, yesterday := s.Clock.Today(), s.Clock.Yesterday()

	var regions []models.Region
	if err := s.DB.Where("date = ?", yesterday).Find(&regions).Error; err != nil {
		return err
	}
	log.Printf("[Scheduler] rollover %s → %s: %d region(s)", yesterday, today, len(regions))

	for _, region := range regions {
		name := RegionName{RegionSi: region.RegionSi, RegionGu: region.RegionGu, RegionDong: region.RegionDong}

		var count int64
		if err := s.DB.Model(&models.Region{}).
			Where("date = ? AND region_si = ? AND region_gu = ? AND region_dong = ?",
				today, name.RegionSi, name.RegionGu, name.RegionDong).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue // already created on demand or by an earlier run
		}

		drafts := s.Synth.CreateQuests(ctx, name, region.TotalCount, region.PageCount)
		if _, err := s.storeRegion(name, today, region.TotalCount, region.PageCount, drafts); err != nil {
			log.Printf("[Scheduler] rollover for %s failed: %v", name.Keyword(), err)
		}
	}
	return nil
}
