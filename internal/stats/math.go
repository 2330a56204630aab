package stats

import "math"

// Percent converts a fraction to the 0-100 scale.
func Percent(fraction float64) float64 {
	return fraction * 100
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// RoundInt rounds to the nearest integer. Sums of fractional hours such as
// 0.1*30 land on 2.9999999999999996, which truncation would turn into 2.
func RoundInt(value float64) int {
	return int(math.Round(value))
}
