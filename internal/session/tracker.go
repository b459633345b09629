// Package session tracks study-session statistics and sequential practice.
package session

import (
	"time"

	"github.com/keiyara/memotype/internal/model"
)

// DefaultCorrectThreshold is the accuracy at or above which an attempt
// counts as a correct item.
const DefaultCorrectThreshold = 0.8

// Tracker accumulates per-attempt results into session statistics.
// A tracker is reusable: End resets it for the next Start.
type Tracker struct {
	correctThreshold float64
	clock            func() time.Time

	active       bool
	startedAt    time.Time
	itemsStudied int
	correctItems int
	accuracySum  float64
	wpmSum       float64
}

// NewTracker creates an idle tracker. A non-positive threshold selects
// the default.
func NewTracker(correctThreshold float64) *Tracker {
	if correctThreshold <= 0 {
		correctThreshold = DefaultCorrectThreshold
	}
	return &Tracker{correctThreshold: correctThreshold, clock: time.Now}
}

// Start begins a new session, discarding any running counters.
func (t *Tracker) Start() {
	t.active = true
	t.startedAt = t.clock()
	t.itemsStudied = 0
	t.correctItems = 0
	t.accuracySum = 0
	t.wpmSum = 0
}

// Active reports whether a session is in progress.
func (t *Tracker) Active() bool {
	return t.active
}

// Record folds one attempt into the running statistics.
func (t *Tracker) Record(result model.AttemptResult) {
	t.itemsStudied++
	t.accuracySum += result.Accuracy
	t.wpmSum += result.WPM
	if result.Accuracy >= t.correctThreshold {
		t.correctItems++
	}
}

// Snapshot returns the running counters without ending the session.
func (t *Tracker) Snapshot() (itemsStudied, correctItems int, accuracySum, wpmSum float64) {
	return t.itemsStudied, t.correctItems, t.accuracySum, t.wpmSum
}

// End finalizes the session and resets the tracker to idle. Ending an
// idle tracker returns a zeroed summary rather than failing, so a stray
// End is harmless.
func (t *Tracker) End() model.SessionSummary {
	now := t.clock()
	summary := model.SessionSummary{Date: now}

	if t.active {
		summary.DurationMinutes = now.Sub(t.startedAt).Minutes()
		summary.ItemsStudied = t.itemsStudied
		summary.CorrectItems = t.correctItems
		if t.itemsStudied > 0 {
			summary.AccuracyPercentage = t.accuracySum / float64(t.itemsStudied) * 100
			summary.AverageWPM = t.wpmSum / float64(t.itemsStudied)
		}
	}

	t.active = false
	t.startedAt = time.Time{}
	t.itemsStudied = 0
	t.correctItems = 0
	t.accuracySum = 0
	t.wpmSum = 0
	return summary
}

// RecordRow builds the database row for the running session. Call before
// End, which clears the counters.
func (t *Tracker) RecordRow(mode string, endedAt time.Time) model.SessionRecord {
	return model.SessionRecord{
		StartedAt:    t.startedAt,
		EndedAt:      endedAt,
		Mode:         mode,
		ItemsStudied: t.itemsStudied,
		CorrectItems: t.correctItems,
		AccuracySum:  t.accuracySum,
		WPMSum:       t.wpmSum,
	}
}
