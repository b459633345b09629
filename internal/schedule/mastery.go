// Package schedule implements mastery tracking and spaced-repetition
// item selection.
package schedule

import (
	"time"

	"github.com/keiyara/memotype/internal/model"
)

// Performance tier boundaries. These cut points are part of the persisted
// mastery contract and are not configurable.
const (
	perfectThreshold = 0.95
	goodThreshold    = 0.80
	fairThreshold    = 0.60
)

// Coefficients are the retain/target weights of the mastery blend, one
// pair per performance tier. New mastery is retain*old + (1-retain)*target.
type Coefficients struct {
	PerfectRetain float64
	PerfectTarget float64
	GoodRetain    float64
	GoodTarget    float64
	FairRetain    float64
	FairTarget    float64
	PoorRetain    float64
	PoorTarget    float64
}

// DefaultCoefficients is the stock blend table: diminishing returns on
// strong performance, fast mastery loss on poor performance.
var DefaultCoefficients = Coefficients{
	PerfectRetain: 0.7, PerfectTarget: 1.0,
	GoodRetain: 0.8, GoodTarget: 0.9,
	FairRetain: 0.8, FairTarget: 0.7,
	PoorRetain: 0.5, PoorTarget: 0.3,
}

// MasteryModel owns the mastery and last-studied fields of study items.
type MasteryModel struct {
	coeffs  Coefficients
	clock   func() time.Time
	history []model.HistoryEntry
}

// NewMasteryModel creates a model with the given blend table.
// A zero Coefficients value selects the defaults.
func NewMasteryModel(coeffs Coefficients) *MasteryModel {
	if coeffs == (Coefficients{}) {
		coeffs = DefaultCoefficients
	}
	return &MasteryModel{coeffs: coeffs, clock: time.Now}
}

// Update blends the item's mastery toward the tier target for the given
// performance score and stamps LastStudied. Degenerate scores outside
// [0,1] are clamped first; the result is always clamped to [0,1].
func (m *MasteryModel) Update(item *model.StudyItem, performance float64) {
	performance = clamp01(performance)

	var retain, target float64
	switch {
	case performance >= perfectThreshold:
		retain, target = m.coeffs.PerfectRetain, m.coeffs.PerfectTarget
	case performance >= goodThreshold:
		retain, target = m.coeffs.GoodRetain, m.coeffs.GoodTarget
	case performance >= fairThreshold:
		retain, target = m.coeffs.FairRetain, m.coeffs.FairTarget
	default:
		retain, target = m.coeffs.PoorRetain, m.coeffs.PoorTarget
	}

	item.Mastery = clamp01(item.Mastery*retain + (1-retain)*target)
	now := m.clock()
	item.LastStudied = &now

	m.history = append(m.history, model.HistoryEntry{
		ItemID:      item.ID,
		Timestamp:   now,
		Performance: performance,
		NewMastery:  item.Mastery,
	})
}

// History returns the mastery updates recorded so far.
func (m *MasteryModel) History() []model.HistoryEntry {
	return m.history
}

// SetHistory replaces the recorded history, used when restoring progress.
func (m *MasteryModel) SetHistory(entries []model.HistoryEntry) {
	m.history = entries
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
