// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/keiyara/memotype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes average accuracy, average WPM, and the correct
// ratio for a stored session aggregate.
func SessionMetrics(agg model.SessionAggregate) (avgAccuracy, avgWPM, correctRatio float64) {
	if agg.ItemsStudied <= 0 {
		return 0, 0, 0
	}
	n := float64(agg.ItemsStudied)
	return agg.AccuracySum / n, agg.WPMSum / n, float64(agg.CorrectItems) / n
}

// ItemMetrics computes mean accuracy and WPM for a per-item aggregate.
func ItemMetrics(agg model.ItemAggregate) (avgAccuracy, avgWPM float64) {
	if agg.Attempts <= 0 {
		return 0, 0
	}
	n := float64(agg.Attempts)
	return agg.AccuracySum / n, agg.WPMSum / n
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for stored sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalAcc, totalWPM float64
	bestWPM := 0.0
	totalItems := 0
	for _, s := range sessions {
		acc, wpm, _ := SessionMetrics(s)
		totalAcc += acc
		totalWPM += wpm
		totalItems += s.ItemsStudied
		if wpm > bestWPM {
			bestWPM = wpm
		}
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Items studied: %d\n", totalItems); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", totalWPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.2f\n", bestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", (totalAcc/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderLearningStats prints the mastery overview for the item pool.
func RenderLearningStats(w io.Writer, stats model.LearningStats, dueCount int) error {
	if _, err := fmt.Fprintln(w, "Learning"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total items: %d\n", stats.TotalItems); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Mastered: %d (%.1f%%)\n", stats.MasteredItems, stats.MasteryPercentage); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg mastery: %.2f\n", stats.AverageMastery); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Due for review: %d\n", dueCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderItemTable prints per-item aggregates sorted by lowest accuracy,
// so the weakest material surfaces first.
func RenderItemTable(w io.Writer, aggs []model.ItemAggregate, items map[string]*model.StudyItem) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No item stats found.")
		return err
	}
	type row struct {
		prompt   string
		typ      string
		mastery  float64
		acc      float64
		wpm      float64
		attempts int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		acc, wpm := ItemMetrics(agg)
		r := row{acc: acc, wpm: wpm, attempts: agg.Attempts, prompt: agg.ItemID}
		if item, ok := items[agg.ItemID]; ok {
			r.prompt = truncate(item.Prompt, 40)
			r.typ = string(item.Type)
			r.mastery = item.Mastery
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].prompt < rows[j].prompt
		}
		return rows[i].acc < rows[j].acc
	})

	if _, err := fmt.Fprintln(w, "Per-Item"); err != nil {
		return err
	}

	cols := []column{
		{header: "Prompt"},
		{header: "Type"},
		{header: "Mastery", rightAlign: true},
		{header: "Accuracy", rightAlign: true},
		{header: "Avg WPM", rightAlign: true},
		{header: "Attempts", rightAlign: true},
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.prompt,
			r.typ,
			fmt.Sprintf("%.2f", r.mastery),
			fmt.Sprintf("%.1f%%", r.acc*100),
			fmt.Sprintf("%.1f", r.wpm),
			fmt.Sprintf("%d", r.attempts),
		})
	}
	lines := formatTable(cols, tableRows)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints accuracy and WPM learning curves over sessions.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	wpms := make([]float64, len(sessions))
	for i, s := range sessions {
		acc, wpm, _ := SessionMetrics(s)
		accs[i] = acc * 100
		wpms[i] = wpm
	}
	accs = MovingAverage(accs, window)
	wpms = MovingAverage(wpms, window)

	return PlotSeries(w, "Learning Curves", []Series{
		{Name: "Accuracy", Values: accs},
		{Name: "WPM", Values: wpms},
	}, 0, 8)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
