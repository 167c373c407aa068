package utils

import "math"

// Round2 rounds to 2 decimal places. Scores and percentages are rounded
// before they leave the engines so equality checks downstream are exact.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
