package schedule

import (
	"math"
	"testing"
	"time"

	"github.com/keiyara/memotype/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestUpdateNearPerfect(t *testing.T) {
	m := NewMasteryModel(Coefficients{})
	item := &model.StudyItem{ID: "a", Answer: "x", Mastery: 0.5}
	m.Update(item, 0.97)
	// 0.5*0.7 + 0.3*1.0
	if math.Abs(item.Mastery-0.65) > 1e-9 {
		t.Errorf("Mastery = %f, want 0.65", item.Mastery)
	}
	if item.LastStudied == nil {
		t.Error("LastStudied should be set after update")
	}
}

func TestUpdateTiers(t *testing.T) {
	tests := []struct {
		name        string
		performance float64
		start       float64
		want        float64
	}{
		{"perfect boundary", 0.95, 0.5, 0.5*0.7 + 0.3*1.0},
		{"good", 0.85, 0.5, 0.5*0.8 + 0.2*0.9},
		{"good lower boundary", 0.80, 0.5, 0.5*0.8 + 0.2*0.9},
		{"fair", 0.70, 0.5, 0.5*0.8 + 0.2*0.7},
		{"fair lower boundary", 0.60, 0.5, 0.5*0.8 + 0.2*0.7},
		{"poor", 0.30, 0.8, 0.8*0.5 + 0.5*0.3},
		{"just below good", 0.7999, 0.5, 0.5*0.8 + 0.2*0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMasteryModel(Coefficients{})
			item := &model.StudyItem{ID: "a", Mastery: tt.start}
			m.Update(item, tt.performance)
			if math.Abs(item.Mastery-tt.want) > 1e-9 {
				t.Errorf("Mastery = %f, want %f", item.Mastery, tt.want)
			}
		})
	}
}

func TestUpdateClampsDegenerateScores(t *testing.T) {
	m := NewMasteryModel(Coefficients{})
	item := &model.StudyItem{ID: "a", Mastery: 0.5}
	for _, perf := range []float64{-3.0, -0.01, 1.01, 42.0, math.Inf(1), math.Inf(-1)} {
		m.Update(item, perf)
		if item.Mastery < 0 || item.Mastery > 1 {
			t.Fatalf("Mastery = %f out of [0,1] after performance %f", item.Mastery, perf)
		}
	}
}

func TestMasteryStaysInRange(t *testing.T) {
	m := NewMasteryModel(Coefficients{})
	item := &model.StudyItem{ID: "a"}
	scores := []float64{1.0, 1.0, 1.0, 0.0, 0.97, 0.55, 0.81, 1.0, 0.99, 0.2, 0.61}
	for i := 0; i < 50; i++ {
		m.Update(item, scores[i%len(scores)])
		if item.Mastery < 0 || item.Mastery > 1 {
			t.Fatalf("Mastery = %f out of [0,1] at step %d", item.Mastery, i)
		}
	}
}

func TestUpdateDiminishingReturns(t *testing.T) {
	m := NewMasteryModel(Coefficients{})
	item := &model.StudyItem{ID: "a"}
	prev := item.Mastery
	var gains []float64
	for i := 0; i < 5; i++ {
		m.Update(item, 1.0)
		gains = append(gains, item.Mastery-prev)
		prev = item.Mastery
	}
	for i := 1; i < len(gains); i++ {
		if gains[i] >= gains[i-1] {
			t.Fatalf("gain %d (%f) not smaller than gain %d (%f)", i, gains[i], i-1, gains[i-1])
		}
	}
	if item.Mastery > 1 {
		t.Errorf("Mastery = %f exceeds 1", item.Mastery)
	}
}

func TestUpdateCustomCoefficients(t *testing.T) {
	m := NewMasteryModel(Coefficients{
		PerfectRetain: 0.5, PerfectTarget: 1.0,
		GoodRetain: 0.5, GoodTarget: 0.5,
		FairRetain: 0.5, FairTarget: 0.5,
		PoorRetain: 0.5, PoorTarget: 0.0,
	})
	item := &model.StudyItem{ID: "a", Mastery: 0.4}
	m.Update(item, 1.0)
	if math.Abs(item.Mastery-0.7) > 1e-9 {
		t.Errorf("Mastery = %f, want 0.7 under custom table", item.Mastery)
	}
}

func TestUpdateRecordsHistory(t *testing.T) {
	when := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m := NewMasteryModel(Coefficients{})
	m.clock = fixedClock(when)

	item := &model.StudyItem{ID: "item-1", Mastery: 0.5}
	m.Update(item, 0.97)

	history := m.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	entry := history[0]
	if entry.ItemID != "item-1" {
		t.Errorf("ItemID = %q", entry.ItemID)
	}
	if !entry.Timestamp.Equal(when) {
		t.Errorf("Timestamp = %v, want %v", entry.Timestamp, when)
	}
	if entry.Performance != 0.97 {
		t.Errorf("Performance = %f", entry.Performance)
	}
	if math.Abs(entry.NewMastery-0.65) > 1e-9 {
		t.Errorf("NewMastery = %f, want 0.65", entry.NewMastery)
	}
	if item.LastStudied == nil || !item.LastStudied.Equal(when) {
		t.Errorf("LastStudied = %v, want %v", item.LastStudied, when)
	}
}
