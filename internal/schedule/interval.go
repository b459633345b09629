package schedule

// IdealInterval maps a mastery level to the target number of days between
// reviews. A step function: higher mastery earns longer spacing.
func IdealInterval(mastery float64) float64 {
	switch {
	case mastery < 0.3:
		return 1
	case mastery < 0.5:
		return 3
	case mastery < 0.7:
		return 7
	case mastery < 0.9:
		return 14
	default:
		return 30
	}
}
