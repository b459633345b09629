// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ItemType classifies a study item.
type ItemType string

// Known item types.
const (
	Definition  ItemType = "definition"
	KeyConcept  ItemType = "key_concept"
	FillInBlank ItemType = "fill_in_blank"
	Formula     ItemType = "formula"
	List        ItemType = "list"
)

// ParseItemType maps a serialized type string to an ItemType.
// Unknown values fall back to KeyConcept with ok=false.
func ParseItemType(s string) (ItemType, bool) {
	switch ItemType(s) {
	case Definition, KeyConcept, FillInBlank, Formula, List:
		return ItemType(s), true
	default:
		return KeyConcept, false
	}
}

// StudyItem is a unit of study content to type.
type StudyItem struct {
	ID             string
	Prompt         string
	Answer         string
	Context        string
	Type           ItemType
	Importance     int // 1-10 weight.
	Mastery        float64
	LastStudied    *time.Time // nil until first attempt.
	SourceDocument string
}

// NewStudyItem creates an item with a fresh ID, default importance, and zero mastery.
func NewStudyItem(prompt, answer string, typ ItemType) *StudyItem {
	return &StudyItem{
		ID:         uuid.NewString(),
		Prompt:     prompt,
		Answer:     answer,
		Type:       typ,
		Importance: 5,
	}
}

// DifficultyScore estimates how hard an item is from answer length,
// remaining mastery gap, and importance.
func (s *StudyItem) DifficultyScore() float64 {
	lengthFactor := float64(len(s.Answer)) / 100.0
	masteryFactor := 1.0 - s.Mastery
	return (lengthFactor + masteryFactor) * float64(s.Importance)
}

// AttemptResult is the outcome of one typing attempt against one item.
type AttemptResult struct {
	ItemID           string
	Accuracy         float64
	WPM              float64
	TimeTakenSeconds float64
	Expected         string
	Actual           string
}

// HistoryEntry records one mastery update for the audit log.
type HistoryEntry struct {
	ItemID      string
	Timestamp   time.Time
	Performance float64
	NewMastery  float64
}

// SessionSummary aggregates a completed study session.
type SessionSummary struct {
	Date                 time.Time
	DurationMinutes      float64
	ItemsStudied         int
	CorrectItems         int
	AccuracyPercentage   float64
	AverageWPM           float64
	CompletionPercentage float64 // sequential mode only.
}

// LearningStats summarizes mastery across the whole item pool.
type LearningStats struct {
	TotalItems        int
	MasteredItems     int
	MasteryPercentage float64
	AverageMastery    float64
}

// SessionRecord is a completed session as stored in the history database.
type SessionRecord struct {
	StartedAt    time.Time
	EndedAt      time.Time
	Mode         string
	ItemsStudied int
	CorrectItems int
	AccuracySum  float64
	WPMSum       float64
}

// AttemptLog is one attempt as stored in the history database.
type AttemptLog struct {
	ItemID      string
	Accuracy    float64
	WPM         float64
	TimeTakenMs int64
	RecordedAt  time.Time
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID    int64
	EndedAt      time.Time
	Mode         string
	ItemsStudied int
	CorrectItems int
	AccuracySum  float64
	WPMSum       float64
}

// ItemAggregate summarizes stored attempts per item for reporting.
type ItemAggregate struct {
	ItemID      string
	Attempts    int
	AccuracySum float64
	WPMSum      float64
	LastAttempt time.Time
}

// ReportConfig defines filters for stats output.
type ReportConfig struct {
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}
