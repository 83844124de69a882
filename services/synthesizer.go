package services

import (
	"context"
	"log"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"region-quest-system/models"
)

// QuestDraft is a fully specified quest that has not been persisted under a
// region yet.
type QuestDraft struct {
	Coord
	Type        string
	Title       string
	Description string
	Reward      int
	Difficulty  int
	TimeUntil   *time.Time
}

// Synthesizer turns a region name plus its address-directory counts into a
// batch of quest drafts: one random address per directory page, forward
// geocoded under the provider rate limit, then assigned a procedural
// category.
type Synthesizer struct {
	directory AddressDirectory
	geocoder  ForwardGeocoder
	batchSize int
	loc       *time.Location
}

const DefaultGeocodeBatchSize = 20

func NewSynthesizer(directory AddressDirectory, geocoder ForwardGeocoder, batchSize int, loc *time.Location) *Synthesizer {
	if batchSize <= 0 {
		batchSize = DefaultGeocodeBatchSize
	}
	if loc == nil {
		loc = time.Local
	}
	return &Synthesizer{
		directory: directory,
		geocoder:  geocoder,
		batchSize: batchSize,
		loc:       loc,
	}
}

// CreateQuests runs the full pipeline for a region. Individual sample or
// geocode failures only shrink the yield; they never abort the batch.
func (s *Synthesizer) CreateQuests(ctx context.Context, name RegionName, totalCount, pageCount int) []QuestDraft {
	plan := samplingPlan(totalCount, pageCount)
	addrs := s.sampleAddresses(ctx, name.Keyword(), plan)
	coords := s.geocodeAll(ctx, addrs)
	log.Printf("[Synthesizer] %s: %d pages → %d addresses → %d coordinates",
		name.Keyword(), len(plan), len(addrs), len(coords))
	return s.draftsFrom(coords, time.Now().In(s.loc))
}

type pagePick struct {
	page  int
	index int
}

// samplingPlan picks one random 1-based index per directory page. The last
// page only holds totalCount%100 entries, so its index is bounded by the
// remainder; a zero remainder means the page is full. Every page is sampled,
// including page 1 of single-page regions.
func samplingPlan(totalCount, pageCount int) []pagePick {
	if totalCount <= 0 || pageCount <= 0 {
		return nil
	}
	picks := make([]pagePick, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		bound := addressesPerPage
		if page == pageCount {
			if rem := totalCount % addressesPerPage; rem != 0 {
				bound = rem
			}
		}
		picks = append(picks, pagePick{page: page, index: rand.Intn(bound) + 1})
	}
	return picks
}

// sampleAddresses issues every pick concurrently. Results keep their plan
// position, so page association never depends on completion order.
func (s *Synthesizer) sampleAddresses(ctx context.Context, keyword string, plan []pagePick) []string {
	results := make([]string, len(plan))
	var g errgroup.Group
	for i, pick := range plan {
		i, pick := i, pick
		g.Go(func() error {
			addr, err := s.directory.Sample(ctx, keyword, pick.page, pick.index)
			if err != nil {
				log.Printf("[Synthesizer] dropped sample page=%d idx=%d: %v", pick.page, pick.index, err)
				return nil
			}
			results[i] = addr
			return nil
		})
	}
	_ = g.Wait()

	addrs := make([]string, 0, len(results))
	for _, a := range results {
		if a != "" {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

// geocodeAll resolves addresses to coordinates in sequential batches of
// batchSize. Requests inside a batch run concurrently; the Wait between
// batches is the barrier that keeps us under the provider's rate ceiling.
func (s *Synthesizer) geocodeAll(ctx context.Context, addrs []string) []Coord {
	coords := make([]Coord, 0, len(addrs))
	for begin := 0; begin < len(addrs); begin += s.batchSize {
		end := begin + s.batchSize
		if end > len(addrs) {
			end = len(addrs)
		}
		batch := addrs[begin:end]
		results := make([]*Coord, len(batch))

		var g errgroup.Group
		for i, addr := range batch {
			i, addr := i, addr
			g.Go(func() error {
				c, err := s.geocoder.ForwardGeocode(ctx, addr)
				if err != nil {
					log.Printf("[Synthesizer] dropped geocode %q: %v", addr, err)
					return nil
				}
				results[i] = &c
				return nil
			})
		}
		_ = g.Wait() // batch barrier — next batch must not start early

		for _, c := range results {
			if c != nil {
				coords = append(coords, *c)
			}
		}
	}
	return coords
}

func (s *Synthesizer) draftsFrom(coords []Coord, now time.Time) []QuestDraft {
	drafts := make([]QuestDraft, 0, len(coords))
	for _, c := range coords {
		cat := models.QuestCategories[rand.Intn(9)+1]
		var deadline *time.Time
		if cat.DeadlineHour > 0 {
			t := time.Date(now.Year(), now.Month(), now.Day(), cat.DeadlineHour, 0, 0, 0, s.loc)
			deadline = &t
		}
		drafts = append(drafts, QuestDraft{
			Coord:       c,
			Type:        cat.Type,
			Title:       cat.Title,
			Description: cat.Description,
			Reward:      cat.Reward,
			Difficulty:  cat.Difficulty,
			TimeUntil:   deadline,
		})
	}
	return drafts
}
