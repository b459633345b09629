package session

import (
	"math/rand"
	"time"

	"github.com/keiyara/memotype/internal/model"
)

// State is the lifecycle phase of a sequential practice run.
type State int

// Sequential practice states.
const (
	NotStarted State = iota
	InProgress
	Ended
)

// Sequential presents items strictly in collection order through an
// explicit cursor, as a non-adaptive alternative to the scheduler.
//
// Next returns the item at the cursor and advances past it, so the cursor
// always points one past the most recently returned item. Back exploits
// that: it rewinds the cursor by one and replays Next, re-presenting the
// item most recently returned.
type Sequential struct {
	items   []*model.StudyItem
	cursor  int
	results []model.AttemptResult
	state   State

	clock     func() time.Time
	startedAt time.Time
}

// NewSequential creates a sequential run over the items.
func NewSequential(items []*model.StudyItem) *Sequential {
	return &Sequential{items: items, clock: time.Now}
}

// State reports the current lifecycle phase.
func (s *Sequential) State() State {
	return s.state
}

// Start resets the cursor and recorded results and begins the run.
func (s *Sequential) Start() {
	s.cursor = 0
	s.results = nil
	s.startedAt = s.clock()
	s.state = InProgress
}

// Next returns the item at the cursor and advances, or nil past the end
// or outside InProgress.
func (s *Sequential) Next() *model.StudyItem {
	if s.state != InProgress || s.cursor >= len(s.items) {
		return nil
	}
	item := s.items[s.cursor]
	s.cursor++
	return item
}

// Skip advances past the current item without recording a result.
func (s *Sequential) Skip() {
	if s.state == InProgress && s.cursor < len(s.items) {
		s.cursor++
	}
}

// Back re-presents the item most recently returned by Next, or nil until
// a second item has been returned. The cursor sits one past the last
// returned item, so stepping back means rewinding one position and
// replaying Next.
func (s *Sequential) Back() *model.StudyItem {
	if s.state != InProgress || s.cursor <= 1 {
		return nil
	}
	s.cursor--
	return s.Next()
}

// ShuffleRemaining randomizes the unvisited suffix, leaving the visited
// prefix in presentation order.
func (s *Sequential) ShuffleRemaining(rng *rand.Rand) {
	if s.cursor >= len(s.items) {
		return
	}
	remaining := s.items[s.cursor:]
	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
}

// Record appends one attempt result to the run.
func (s *Sequential) Record(result model.AttemptResult) {
	if s.state == InProgress {
		s.results = append(s.results, result)
	}
}

// Results returns the attempts recorded so far.
func (s *Sequential) Results() []model.AttemptResult {
	return s.results
}

// Progress returns how many items the cursor has passed and the total.
func (s *Sequential) Progress() (done, total int) {
	return s.cursor, len(s.items)
}

// Remaining returns the number of unvisited items.
func (s *Sequential) Remaining() int {
	n := len(s.items) - s.cursor
	if n < 0 {
		return 0
	}
	return n
}

// End finalizes the run and returns its summary. The run stays Ended
// until Start is called again; a second End returns a zeroed summary.
func (s *Sequential) End() model.SessionSummary {
	now := s.clock()
	summary := model.SessionSummary{Date: now}

	if s.state == InProgress {
		summary.DurationMinutes = now.Sub(s.startedAt).Minutes()
		summary.ItemsStudied = len(s.results)
		var accuracySum, wpmSum float64
		for _, r := range s.results {
			accuracySum += r.Accuracy
			wpmSum += r.WPM
			if r.Accuracy >= DefaultCorrectThreshold {
				summary.CorrectItems++
			}
		}
		if len(s.results) > 0 {
			summary.AccuracyPercentage = accuracySum / float64(len(s.results)) * 100
			summary.AverageWPM = wpmSum / float64(len(s.results))
		}
		if len(s.items) > 0 {
			summary.CompletionPercentage = float64(len(s.results)) / float64(len(s.items)) * 100
		}
	}

	s.state = Ended
	return summary
}
