// Package stats contains statistics calculations and reporting.
package stats

import (
	"strings"
	"unicode/utf8"
)

// column describes one table column: its header and whether cell values
// right-align, which the numeric columns do.
type column struct {
	header     string
	rightAlign bool
}

// formatTable lays out rows under the column headers, each column padded
// to its widest cell. Rows shorter than the column set render empty
// trailing cells; excess cells are dropped.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}

	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = displayWidth(col.header)
	}
	for _, row := range rows {
		for i := range cols {
			if i >= len(row) {
				continue
			}
			if w := displayWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.header
	}
	lines = append(lines, formatRow(cols, widths, header))
	for _, row := range rows {
		lines = append(lines, formatRow(cols, widths, row))
	}
	return lines
}

func formatRow(cols []column, widths []int, row []string) string {
	var b strings.Builder
	for i, col := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], col.rightAlign))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return utf8.RuneCountInString(value)
}
