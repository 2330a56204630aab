package stats

import (
	"testing"
)

func TestRound1(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"Zero", 0, 0},
		{"AlreadyRounded", 77.5, 77.5},
		{"Down", 77.44, 77.4},
		{"Up", 77.46, 77.5},
		{"PercentOfFraction", Percent(0.925), 92.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round1(tt.value); got != tt.expected {
				t.Errorf("Round1(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestRoundInt(t *testing.T) {
	sum := 0.0
	for i := 0; i < 30; i++ {
		sum += 0.1
	}

	tests := []struct {
		name     string
		value    float64
		expected int
	}{
		{"Zero", 0, 0},
		{"Whole", 18, 18},
		{"FloatDrift", sum, 3},
		{"Half", 2.5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundInt(tt.value); got != tt.expected {
				t.Errorf("RoundInt(%v) = %d, want %d", tt.value, got, tt.expected)
			}
		})
	}
}
