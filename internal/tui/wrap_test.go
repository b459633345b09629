package tui

import (
	"strings"
	"testing"
)

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextLongWord(t *testing.T) {
	got := wrapText("a extraordinarily b", 5)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[1] != "extraordinarily" {
		t.Errorf("long word should stay intact, got %q", lines[1])
	}
}

func TestWrapTextZeroWidth(t *testing.T) {
	if got := wrapText("unchanged text", 0); got != "unchanged text" {
		t.Errorf("wrapText = %q", got)
	}
}
