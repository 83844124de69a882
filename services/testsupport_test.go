package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"region-quest-system/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // shared in-memory sqlite is single-writer

	require.NoError(t, db.AutoMigrate(
		&models.Player{},
		&models.Region{},
		&models.Quest{},
		&models.Complete{},
		&models.Feed{},
		&models.Comment{},
	))
	return db
}

type fakeReverseGeocoder struct {
	name  RegionName
	err   error
	calls int32
}

func (f *fakeReverseGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (RegionName, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return RegionName{}, f.err
	}
	return f.name, nil
}

// fakeDirectory serves a deterministic address book: every sample request
// succeeds unless its page is listed in failPages.
type fakeDirectory struct {
	total        int
	pages        int
	failPages    map[int]bool
	summaryCalls int32
	sampleCalls  int32
}

func (f *fakeDirectory) Summary(ctx context.Context, keyword string) (int, int, error) {
	atomic.AddInt32(&f.summaryCalls, 1)
	return f.total, f.pages, nil
}

func (f *fakeDirectory) Sample(ctx context.Context, keyword string, page, index int) (string, error) {
	atomic.AddInt32(&f.sampleCalls, 1)
	if f.failPages[page] {
		return "", ErrUpstreamUnavailable
	}
	return fmt.Sprintf("%s 땅땅로%d길 %d", keyword, page, index), nil
}

type fakeGeocoder struct {
	calls int32
}

func (f *fakeGeocoder) ForwardGeocode(ctx context.Context, roadAddr string) (Coord, error) {
	atomic.AddInt32(&f.calls, 1)
	return Coord{Lat: 37.4979, Lng: 127.0276}, nil
}

// Panicking doubles back the cache-hit property: once a region is persisted,
// a lookup must never reach the directory or the forward geocoder again.
type panickingDirectory struct{}

func (panickingDirectory) Summary(ctx context.Context, keyword string) (int, int, error) {
	panic("unexpected address directory call")
}

func (panickingDirectory) Sample(ctx context.Context, keyword string, page, index int) (string, error) {
	panic("unexpected address directory call")
}

type panickingGeocoder struct{}

func (panickingGeocoder) ForwardGeocode(ctx context.Context, roadAddr string) (Coord, error) {
	panic("unexpected forward geocode call")
}
