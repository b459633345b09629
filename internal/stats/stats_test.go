package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/keiyara/memotype/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	agg := model.SessionAggregate{ItemsStudied: 4, CorrectItems: 3, AccuracySum: 3.4, WPMSum: 120}
	acc, wpm, ratio := SessionMetrics(agg)
	if math.Abs(acc-0.85) > 1e-9 {
		t.Errorf("acc = %f, want 0.85", acc)
	}
	if wpm != 30 {
		t.Errorf("wpm = %f, want 30", wpm)
	}
	if ratio != 0.75 {
		t.Errorf("ratio = %f, want 0.75", ratio)
	}
}

func TestSessionMetricsEmpty(t *testing.T) {
	acc, wpm, ratio := SessionMetrics(model.SessionAggregate{})
	if acc != 0 || wpm != 0 || ratio != 0 {
		t.Errorf("metrics = %f/%f/%f, want zeros", acc, wpm, ratio)
	}
}

func TestItemMetrics(t *testing.T) {
	acc, wpm := ItemMetrics(model.ItemAggregate{Attempts: 2, AccuracySum: 1.5, WPMSum: 50})
	if acc != 0.75 || wpm != 25 {
		t.Errorf("metrics = %f/%f", acc, wpm)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5, 4.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("out[%d] = %f, want %f", i, out[i], want[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{3, 1, 4}
	out := MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Errorf("window 1 should copy values, got %v", out)
		}
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 5, 10})
	if len(line) != 3 {
		t.Fatalf("length = %d, want 3", len(line))
	}
	if line[0] != sparkChars[0] {
		t.Errorf("first char = %q, want lowest", line[0])
	}
	if line[2] != sparkChars[len(sparkChars)-1] {
		t.Errorf("last char = %q, want highest", line[2])
	}
}

func TestSparklineFlat(t *testing.T) {
	line := Sparkline([]float64{2, 2, 2, 2})
	if len(line) != 4 {
		t.Fatalf("length = %d", len(line))
	}
	for i := 1; i < len(line); i++ {
		if line[i] != line[0] {
			t.Error("flat series should render uniformly")
		}
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{
		{SessionID: 1, ItemsStudied: 2, CorrectItems: 2, AccuracySum: 1.8, WPMSum: 60},
		{SessionID: 2, ItemsStudied: 2, CorrectItems: 1, AccuracySum: 1.4, WPMSum: 80},
	}
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sessions: 2") {
		t.Errorf("missing session count:\n%s", out)
	}
	if !strings.Contains(out, "Items studied: 4") {
		t.Errorf("missing items studied:\n%s", out)
	}
	if !strings.Contains(out, "Best WPM: 40.00") {
		t.Errorf("missing best wpm:\n%s", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderItemTableSortsByAccuracy(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.ItemAggregate{
		{ItemID: "good", Attempts: 2, AccuracySum: 1.9, WPMSum: 60},
		{ItemID: "weak", Attempts: 2, AccuracySum: 0.6, WPMSum: 30},
	}
	items := map[string]*model.StudyItem{
		"good": {ID: "good", Prompt: "easy prompt", Type: model.Definition, Mastery: 0.9},
		"weak": {ID: "weak", Prompt: "hard prompt", Type: model.Formula, Mastery: 0.2},
	}
	if err := RenderItemTable(&buf, aggs, items); err != nil {
		t.Fatalf("RenderItemTable: %v", err)
	}
	out := buf.String()
	weakIdx := strings.Index(out, "hard prompt")
	goodIdx := strings.Index(out, "easy prompt")
	if weakIdx < 0 || goodIdx < 0 {
		t.Fatalf("prompts missing:\n%s", out)
	}
	if weakIdx > goodIdx {
		t.Errorf("weakest item should be listed first:\n%s", out)
	}
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{
		{ItemsStudied: 1, AccuracySum: 0.5, WPMSum: 20},
		{ItemsStudied: 1, AccuracySum: 0.7, WPMSum: 25},
		{ItemsStudied: 1, AccuracySum: 0.9, WPMSum: 32},
	}
	if err := RenderCurves(&buf, sessions, 1); err != nil {
		t.Fatalf("RenderCurves: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Accuracy") || !strings.Contains(out, "WPM") {
		t.Errorf("curves output missing series names:\n%s", out)
	}
}

func TestResample(t *testing.T) {
	values := []float64{1, 1, 3, 3}
	out := resample(values, 2)
	if len(out) != 2 {
		t.Fatalf("length = %d, want 2", len(out))
	}
	if out[0] != 1 || out[1] != 3 {
		t.Errorf("out = %v, want [1 3]", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	got := truncate("a very long prompt that keeps going", 10)
	if len([]rune(got)) != 10 {
		t.Errorf("truncated length = %d, want 10", len([]rune(got)))
	}
}
