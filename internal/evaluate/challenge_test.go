package evaluate

import (
	"testing"
	"time"

	"github.com/keiyara/memotype/internal/model"
)

// fakeClock advances by step on every call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (f *fakeClock) Now() time.Time {
	f.now = f.now.Add(f.step)
	return f.now
}

func TestChallengeLifecycle(t *testing.T) {
	item := model.NewStudyItem("What is 2+2?", "four", model.Definition)
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), step: 30 * time.Second}
	c := NewChallenge(item)
	c.clock = clock.Now

	if _, ok := c.Result(); ok {
		t.Fatal("Result should not be available before completion")
	}

	c.Start()
	res := c.Complete("four")

	if res.ItemID != item.ID {
		t.Errorf("ItemID = %q, want %q", res.ItemID, item.ID)
	}
	if res.Accuracy != 1.0 {
		t.Errorf("Accuracy = %f, want 1.0", res.Accuracy)
	}
	if res.TimeTakenSeconds != 30 {
		t.Errorf("TimeTakenSeconds = %f, want 30", res.TimeTakenSeconds)
	}
	// Answer is one word typed in 30s.
	if res.WPM != 2.0 {
		t.Errorf("WPM = %f, want 2.0", res.WPM)
	}
	if res.Expected != "four" || res.Actual != "four" {
		t.Errorf("Expected/Actual = %q/%q", res.Expected, res.Actual)
	}
	if !c.Completed() {
		t.Error("Completed should be true after Complete")
	}
	if got, ok := c.Result(); !ok || got != res {
		t.Error("Result should return the frozen attempt")
	}
}

func TestChallengeElapsedBeforeStart(t *testing.T) {
	c := NewChallenge(model.NewStudyItem("p", "a", model.KeyConcept))
	if c.Elapsed() != 0 {
		t.Errorf("Elapsed = %v, want 0 before Start", c.Elapsed())
	}
}
