package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 16
	fallbackPlotWidth = 72
	plotGutter        = 8 // room for the axis labels on the left.
)

var seriesMarks = []byte{'*', '+', 'o', 'x'}

// PlotSeries renders each series as a text chart scaled to its own
// min/max, followed by a sparkline and range line per series. Width 0
// auto-detects the terminal; height 0 uses a default.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = terminalWidth() - plotGutter
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for i, s := range series {
		values := resample(s.Values, width)
		minVal, maxVal := minMax(values)
		if err := renderChart(w, values, minVal, maxVal, height, seriesMarks[i%len(seriesMarks)]); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s  min %.1f  max %.1f\n", s.Name, minVal, maxVal); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, Sparkline(values)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

func renderChart(w io.Writer, values []float64, minVal, maxVal float64, height int, mark byte) error {
	span := maxVal - minVal
	if math.Abs(span) < 1e-9 {
		span = 1
	}
	rows := make([][]byte, height)
	for i := range rows {
		rows[i] = []byte(strings.Repeat(" ", len(values)))
	}
	for col, v := range values {
		level := int(math.Round((v - minVal) / span * float64(height-1)))
		if level < 0 {
			level = 0
		}
		if level >= height {
			level = height - 1
		}
		// Row 0 is the top of the chart.
		rows[height-1-level][col] = mark
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, string(row)); err != nil {
			return err
		}
	}
	return nil
}

// resample squeezes values into at most width columns by averaging buckets.
func resample(values []float64, width int) []float64 {
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		if hi <= lo {
			hi = lo + 1
		}
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackPlotWidth
	}
	return width
}
