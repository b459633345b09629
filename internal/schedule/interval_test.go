package schedule

import "testing"

func TestIdealInterval(t *testing.T) {
	tests := []struct {
		mastery float64
		want    float64
	}{
		{0.0, 1},
		{0.29, 1},
		{0.3, 3},
		{0.49, 3},
		{0.5, 7},
		{0.69, 7},
		{0.7, 14},
		{0.89, 14},
		{0.9, 30},
		{1.0, 30},
	}
	for _, tt := range tests {
		if got := IdealInterval(tt.mastery); got != tt.want {
			t.Errorf("IdealInterval(%f) = %f, want %f", tt.mastery, got, tt.want)
		}
	}
}
