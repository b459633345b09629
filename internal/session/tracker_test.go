package session

import (
	"math"
	"testing"
	"time"

	"github.com/keiyara/memotype/internal/model"
)

// steppingClock returns a later time on each call.
type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func TestTrackerSession(t *testing.T) {
	clock := &steppingClock{now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC), step: 5 * time.Minute}
	tr := NewTracker(0)
	tr.clock = clock.Now

	tr.Start()
	tr.Record(model.AttemptResult{Accuracy: 0.9, WPM: 40})
	tr.Record(model.AttemptResult{Accuracy: 0.5, WPM: 20})
	tr.Record(model.AttemptResult{Accuracy: 0.8, WPM: 30})

	summary := tr.End()
	if summary.ItemsStudied != 3 {
		t.Errorf("ItemsStudied = %d, want 3", summary.ItemsStudied)
	}
	// 0.9 and 0.8 meet the 0.8 threshold.
	if summary.CorrectItems != 2 {
		t.Errorf("CorrectItems = %d, want 2", summary.CorrectItems)
	}
	wantAcc := (0.9 + 0.5 + 0.8) / 3 * 100
	if math.Abs(summary.AccuracyPercentage-wantAcc) > 1e-9 {
		t.Errorf("AccuracyPercentage = %f, want %f", summary.AccuracyPercentage, wantAcc)
	}
	if math.Abs(summary.AverageWPM-30) > 1e-9 {
		t.Errorf("AverageWPM = %f, want 30", summary.AverageWPM)
	}
	if summary.DurationMinutes != 5 {
		t.Errorf("DurationMinutes = %f, want 5", summary.DurationMinutes)
	}
}

func TestTrackerEndWithoutStart(t *testing.T) {
	tr := NewTracker(0)
	summary := tr.End()
	if summary.ItemsStudied != 0 || summary.DurationMinutes != 0 || summary.AccuracyPercentage != 0 {
		t.Errorf("summary = %+v, want zeroed", summary)
	}
}

func TestTrackerDoubleEnd(t *testing.T) {
	tr := NewTracker(0)
	tr.Start()
	tr.Record(model.AttemptResult{Accuracy: 1.0, WPM: 50})
	first := tr.End()
	if first.ItemsStudied != 1 {
		t.Fatalf("first End ItemsStudied = %d, want 1", first.ItemsStudied)
	}
	second := tr.End()
	if second.ItemsStudied != 0 || second.AccuracyPercentage != 0 || second.AverageWPM != 0 {
		t.Errorf("second End = %+v, want zeroed", second)
	}
}

func TestTrackerEmptySessionGuardsDivision(t *testing.T) {
	tr := NewTracker(0)
	tr.Start()
	summary := tr.End()
	if summary.AccuracyPercentage != 0 || summary.AverageWPM != 0 {
		t.Errorf("summary = %+v, want guarded zeros", summary)
	}
}

func TestTrackerReusable(t *testing.T) {
	tr := NewTracker(0)
	tr.Start()
	tr.Record(model.AttemptResult{Accuracy: 1.0, WPM: 50})
	tr.End()

	tr.Start()
	tr.Record(model.AttemptResult{Accuracy: 0.6, WPM: 25})
	summary := tr.End()
	if summary.ItemsStudied != 1 {
		t.Errorf("ItemsStudied = %d, want 1 after reuse", summary.ItemsStudied)
	}
	if summary.CorrectItems != 0 {
		t.Errorf("CorrectItems = %d, want 0", summary.CorrectItems)
	}
}

func TestTrackerCustomThreshold(t *testing.T) {
	tr := NewTracker(0.5)
	tr.Start()
	tr.Record(model.AttemptResult{Accuracy: 0.6})
	summary := tr.End()
	if summary.CorrectItems != 1 {
		t.Errorf("CorrectItems = %d, want 1 with threshold 0.5", summary.CorrectItems)
	}
}

func TestTrackerRecordRow(t *testing.T) {
	start := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	clock := &steppingClock{now: start.Add(-time.Minute), step: time.Minute}
	tr := NewTracker(0)
	tr.clock = clock.Now

	tr.Start() // clock → start
	tr.Record(model.AttemptResult{Accuracy: 0.9, WPM: 40})
	end := start.Add(10 * time.Minute)
	row := tr.RecordRow("adaptive", end)

	if !row.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", row.StartedAt, start)
	}
	if !row.EndedAt.Equal(end) {
		t.Errorf("EndedAt = %v", row.EndedAt)
	}
	if row.Mode != "adaptive" || row.ItemsStudied != 1 || row.CorrectItems != 1 {
		t.Errorf("row = %+v", row)
	}
	if row.AccuracySum != 0.9 || row.WPMSum != 40 {
		t.Errorf("sums = %f/%f", row.AccuracySum, row.WPMSum)
	}
}
