package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText wraps words to the given display width. Words wider than the
// limit are emitted on their own line rather than split.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
