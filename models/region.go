// models/region.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Region pins a named administrative area (si/gu/dong) to one calendar day.
// Quests are cached per region per day: the row is created the first time the
// area is resolved on that day and never updated afterwards.
type Region struct {
	ID         string `json:"id" gorm:"primaryKey;type:uuid"`
	Date       string `json:"date" gorm:"uniqueIndex:idx_region_day,priority:1;not null"` // "2006-01-02"
	RegionSi   string `json:"region_si" gorm:"uniqueIndex:idx_region_day,priority:2;not null"`
	RegionGu   string `json:"region_gu" gorm:"uniqueIndex:idx_region_day,priority:3;not null"`
	RegionDong string `json:"region_dong" gorm:"uniqueIndex:idx_region_day,priority:4;not null"`

	// Address directory metadata as observed when the region was first
	// resolved. The rollover job reuses these instead of re-fetching.
	TotalCount int `json:"total_count"`
	PageCount  int `json:"page_count"`

	Quests []Quest `json:"quests,omitempty" gorm:"foreignKey:RegionID"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
