// Package evaluate scores typing attempts against expected answers.
package evaluate

import "strings"

// Result holds the objective metrics for one attempt.
type Result struct {
	Accuracy float64
	WPM      float64
}

// Evaluate compares typed text against the expected answer.
//
// Accuracy is a position-wise rune comparison up to the shorter length,
// divided by the rune length of expected. Insertions and deletions get no
// credit; this is deliberately not edit-distance based. An empty expected
// answer scores 1.0.
//
// WPM is the whitespace-token count of expected over elapsed minutes.
// Non-positive elapsed time yields 0 rather than an error.
func Evaluate(expected, actual string, elapsedSeconds float64) Result {
	return Result{
		Accuracy: accuracy(expected, actual),
		WPM:      wordsPerMinute(expected, elapsedSeconds),
	}
}

func accuracy(expected, actual string) float64 {
	exp := []rune(expected)
	if len(exp) == 0 {
		return 1.0
	}
	act := []rune(actual)
	n := len(exp)
	if len(act) < n {
		n = len(act)
	}
	matches := 0
	for i := 0; i < n; i++ {
		if act[i] == exp[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(exp))
}

func wordsPerMinute(expected string, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	words := len(strings.Fields(expected))
	return float64(words) / (elapsedSeconds / 60.0)
}
