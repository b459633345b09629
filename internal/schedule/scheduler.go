package schedule

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/keiyara/memotype/internal/model"
)

// timeFactor assigned to items that have never been studied; large enough
// to front-load new items ahead of anything on schedule.
const newItemTimeFactor = 10.0

// SchedulerConfig configures a Scheduler.
// Zero values produce sensible defaults; see field comments.
type SchedulerConfig struct {
	ExplorationRate    float64      // zero → 0.10; chance per call to pick a random item
	DisableExploration bool         // zero false → exploration enabled
	MasteredThreshold  float64      // zero → 0.8; mastery level counted as mastered
	Coefficients       Coefficients // zero → DefaultCoefficients
	Seed               int64        // zero → time-based seed
}

// Scheduler picks the next study item using spaced-repetition priorities
// and owns the mastery model for the pool.
type Scheduler struct {
	mastery            *MasteryModel
	explorationRate    float64
	disableExploration bool
	masteredThreshold  float64
	rng                *rand.Rand
	clock              func() time.Time
}

// NewScheduler creates a Scheduler from the given config.
// Zero-value fields are filled with defaults; invalid values return an error.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	rate := cfg.ExplorationRate
	if rate == 0 {
		rate = 0.10
	}
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("schedule: exploration rate %f out of range [0, 1]", rate)
	}

	mastered := cfg.MasteredThreshold
	if mastered == 0 {
		mastered = 0.8
	}
	if mastered < 0 || mastered > 1 {
		return nil, fmt.Errorf("schedule: mastered threshold %f out of range [0, 1]", mastered)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Scheduler{
		mastery:            NewMasteryModel(cfg.Coefficients),
		explorationRate:    rate,
		disableExploration: cfg.DisableExploration,
		masteredThreshold:  mastered,
		rng:                rand.New(rand.NewSource(seed)),
		clock:              time.Now,
	}, nil
}

// Mastery returns the scheduler's mastery model.
func (s *Scheduler) Mastery() *MasteryModel {
	return s.mastery
}

// Update records a completed attempt against the item.
func (s *Scheduler) Update(item *model.StudyItem, performance float64) {
	s.mastery.Update(item, performance)
}

// SelectNext picks the item to present next, or nil for an empty pool.
//
// Each item gets priority = timeFactor * (1 - mastery) * importance, where
// timeFactor is days since last study over the ideal interval, or
// newItemTimeFactor for unstudied items. Ties break on ascending ID so a
// fixed seed gives reproducible selection. With probability equal to the
// exploration rate the ranking is ignored and a uniformly random item is
// returned instead, to avoid repetitive drilling.
func (s *Scheduler) SelectNext(items []*model.StudyItem) *model.StudyItem {
	if len(items) == 0 {
		return nil
	}

	ranked := s.rank(items)

	if !s.disableExploration && s.rng.Float64() < s.explorationRate {
		return items[s.rng.Intn(len(items))]
	}
	return ranked[0].item
}

type rankedItem struct {
	item     *model.StudyItem
	priority float64
}

func (s *Scheduler) rank(items []*model.StudyItem) []rankedItem {
	now := s.clock()
	ranked := make([]rankedItem, 0, len(items))
	for _, item := range items {
		ranked = append(ranked, rankedItem{
			item:     item,
			priority: s.priority(item, now),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].priority == ranked[j].priority {
			return ranked[i].item.ID < ranked[j].item.ID
		}
		return ranked[i].priority > ranked[j].priority
	})
	return ranked
}

func (s *Scheduler) priority(item *model.StudyItem, now time.Time) float64 {
	timeFactor := newItemTimeFactor
	if item.LastStudied != nil {
		days := now.Sub(*item.LastStudied).Hours() / 24.0
		interval := IdealInterval(item.Mastery)
		timeFactor = days / interval
	}
	return timeFactor * (1.0 - item.Mastery) * float64(item.Importance)
}

// DueItems returns the items whose spacing interval has elapsed, plus all
// items never studied.
func (s *Scheduler) DueItems(items []*model.StudyItem) []*model.StudyItem {
	now := s.clock()
	var due []*model.StudyItem
	for _, item := range items {
		if item.LastStudied == nil {
			due = append(due, item)
			continue
		}
		days := now.Sub(*item.LastStudied).Hours() / 24.0
		if days >= IdealInterval(item.Mastery) {
			due = append(due, item)
		}
	}
	return due
}

// LearningStats summarizes mastery across the pool.
func (s *Scheduler) LearningStats(items []*model.StudyItem) model.LearningStats {
	stats := model.LearningStats{TotalItems: len(items)}
	if len(items) == 0 {
		return stats
	}
	var sum float64
	for _, item := range items {
		sum += item.Mastery
		if item.Mastery >= s.masteredThreshold {
			stats.MasteredItems++
		}
	}
	stats.MasteryPercentage = float64(stats.MasteredItems) / float64(len(items)) * 100
	stats.AverageMastery = sum / float64(len(items))
	return stats
}
