package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"region-quest-system/models"
)

// QuestService coordinates region resolution, the per-day quest cache and the
// synthesis pipeline. Every public operation returns an {ok,...} result
// instead of an error; callers branch on OK.
type QuestService struct {
	DB        *gorm.DB
	Geocoder  ReverseGeocoder
	Directory AddressDirectory
	Synth     *Synthesizer
	Clock     *TodayClock
}

func NewQuestService(db *gorm.DB, geocoder ReverseGeocoder, directory AddressDirectory, synth *Synthesizer, clock *TodayClock) *QuestService {
	return &QuestService{
		DB:        db,
		Geocoder:  geocoder,
		Directory: directory,
		Synth:     synth,
		Clock:     clock,
	}
}

// QuestView is a quest annotated with the requesting player's completion
// status. Anonymous lookups always see Completed=false.
type QuestView struct {
	models.Quest
	Completed bool `json:"completed"`
}

type QuestListResult struct {
	OK            bool        `json:"ok"`
	Message       string      `json:"message,omitempty"`
	CurrentRegion *RegionName `json:"currentRegion,omitempty"`
	Rows          []QuestView `json:"rows,omitempty"`
}

type QuestResult struct {
	OK      bool       `json:"ok"`
	Message string     `json:"message,omitempty"`
	Row     *QuestView `json:"row,omitempty"`
}

type OpResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ResolveQuests returns the quest set for the region containing (lat, lng) on
// the current snapshot day. A cached region is served straight from the
// database; a miss drives the full sampling/geocoding/synthesis pipeline and
// persists the result before responding.
func (s *QuestService) ResolveQuests(ctx context.Context, lat, lng float64, playerID string) QuestListResult {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return QuestListResult{OK: false, Message: "좌표 값이 올바르지 않습니다."}
	}

	name, err := s.Geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		log.Printf("[QuestService] reverse geocode (%v, %v) failed: %v", lat, lng, err)
		return QuestListResult{OK: false, Message: "현재 위치의 주소를 확인할 수 없습니다."}
	}

	today := s.Clock.Today()

	var region models.Region
	err = s.DB.Where("date = ? AND region_si = ? AND region_gu = ? AND region_dong = ?",
		today, name.RegionSi, name.RegionGu, name.RegionDong).First(&region).Error
	if err == nil {
		rows, err := s.listQuests(region.ID, playerID)
		if err != nil {
			return QuestListResult{OK: false, Message: "퀘스트를 불러올 수 없습니다."}
		}
		return QuestListResult{OK: true, CurrentRegion: &name, Rows: rows}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return QuestListResult{OK: false, Message: "퀘스트를 불러올 수 없습니다."}
	}

	// Cache miss: fetch the directory summary, synthesize, persist.
	totalCount, pageCount, err := s.Directory.Summary(ctx, name.Keyword())
	if err != nil {
		log.Printf("[QuestService] directory summary %q failed: %v", name.Keyword(), err)
		return QuestListResult{OK: false, Message: "주소 정보를 불러올 수 없습니다."}
	}

	drafts := s.Synth.CreateQuests(ctx, name, totalCount, pageCount)
	stored, err := s.storeRegion(name, today, totalCount, pageCount, drafts)
	if err != nil {
		log.Printf("[QuestService] store region %q failed: %v", name.Keyword(), err)
		return QuestListResult{OK: false, Message: "퀘스트를 저장할 수 없습니다."}
	}

	rows, err := s.listQuests(stored.ID, playerID)
	if err != nil {
		return QuestListResult{OK: false, Message: "퀘스트를 불러올 수 없습니다."}
	}
	return QuestListResult{OK: true, CurrentRegion: &name, Rows: rows}
}

// GetQuest is a single-quest lookup with completion annotation. It never
// triggers synthesis.
func (s *QuestService) GetQuest(questID, playerID string) QuestResult {
	var quest models.Quest
	if err := s.DB.Where("id = ?", questID).First(&quest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return QuestResult{OK: false, Message: "해당 퀘스트를 찾을 수 없습니다."}
		}
		return QuestResult{OK: false, Message: "퀘스트를 불러올 수 없습니다."}
	}

	view := QuestView{Quest: quest}
	if playerID != "" {
		var count int64
		if err := s.DB.Model(&models.Complete{}).
			Where("player_id = ? AND quest_id = ?", playerID, questID).
			Count(&count).Error; err != nil {
			return QuestResult{OK: false, Message: "퀘스트를 불러올 수 없습니다."}
		}
		view.Completed = count > 0
	}
	return QuestResult{OK: true, Row: &view}
}

// CompleteQuest records a time-attack or monster-battle completion. The
// (player, quest) pair is unique; a repeat attempt reports already-completed
// and leaves the original row untouched.
func (s *QuestService) CompleteQuest(questID, playerID string) OpResult {
	var quest models.Quest
	if err := s.DB.Where("id = ?", questID).First(&quest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OpResult{OK: false, Message: "요청하신 퀘스트를 찾을 수 없습니다."}
		}
		return OpResult{OK: false, Message: "퀘스트를 완료할 수 없습니다."}
	}

	var player models.Player
	if err := s.DB.Where("id = ?", playerID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OpResult{OK: false, Message: "플레이어님의 정보를 찾을 수 없습니다."}
		}
		return OpResult{OK: false, Message: "퀘스트를 완료할 수 없습니다."}
	}

	complete := models.Complete{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		QuestID:  questID,
	}
	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "quest_id"}},
		DoNothing: true,
	}).Create(&complete)
	if res.Error != nil {
		return OpResult{OK: false, Message: "퀘스트를 완료할 수 없습니다."}
	}
	if res.RowsAffected == 0 {
		return OpResult{OK: false, Message: "퀘스트를 이미 완료하였습니다."}
	}
	return OpResult{OK: true}
}

// storeRegion persists a new region row plus its quests. The composite unique
// index on (date, si, gu, dong) arbitrates concurrent cache misses: the loser
// detects zero affected rows and reads the winner's region instead.
func (s *QuestService) storeRegion(name RegionName, date string, totalCount, pageCount int, drafts []QuestDraft) (*models.Region, error) {
	region := models.Region{
		ID:         uuid.NewString(),
		Date:       date,
		RegionSi:   name.RegionSi,
		RegionGu:   name.RegionGu,
		RegionDong: name.RegionDong,
		TotalCount: totalCount,
		PageCount:  pageCount,
	}
	var stored *models.Region
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "region_si"}, {Name: "region_gu"}, {Name: "region_dong"}},
			DoNothing: true,
		}).Create(&region)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var existing models.Region
			if err := tx.Where("date = ? AND region_si = ? AND region_gu = ? AND region_dong = ?",
				date, name.RegionSi, name.RegionGu, name.RegionDong).First(&existing).Error; err != nil {
				return err
			}
			stored = &existing
			return nil
		}

		quests := make([]models.Quest, 0, len(drafts))
		for _, d := range drafts {
			quests = append(quests, models.Quest{
				ID:          uuid.NewString(),
				RegionID:    region.ID,
				Type:        d.Type,
				Title:       d.Title,
				Description: d.Description,
				Reward:      d.Reward,
				Difficulty:  d.Difficulty,
				Lat:         d.Lat,
				Lng:         d.Lng,
				TimeUntil:   d.TimeUntil,
			})
		}
		if len(quests) > 0 {
			if err := tx.Create(&quests).Error; err != nil {
				return err
			}
		}
		stored = &region
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *QuestService) listQuests(regionID, playerID string) ([]QuestView, error) {
	var quests []models.Quest
	if err := s.DB.Where("region_id = ?", regionID).Order("created_at ASC, id ASC").Find(&quests).Error; err != nil {
		return nil, err
	}

	completed := map[string]bool{}
	if playerID != "" && len(quests) > 0 {
		ids := make([]string, 0, len(quests))
		for _, q := range quests {
			ids = append(ids, q.ID)
		}
		var completes []models.Complete
		if err := s.DB.Where("player_id = ? AND quest_id IN ?", playerID, ids).Find(&completes).Error; err != nil {
			return nil, err
		}
		for _, c := range completes {
			completed[c.QuestID] = true
		}
	}

	rows := make([]QuestView, 0, len(quests))
	for _, q := range quests {
		rows = append(rows, QuestView{Quest: q, Completed: completed[q.ID]})
	}
	return rows, nil
}
