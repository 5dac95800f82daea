package analysisController

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressEstimate(t *testing.T) {
	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		ramp     int
		cap      int
		expected int
	}{
		{name: "zero elapsed", elapsed: 0, ramp: 9, cap: 90, expected: 0},
		{name: "halfway through the ramp", elapsed: 4*time.Minute + 30*time.Second, ramp: 9, cap: 90, expected: 45},
		{name: "full ramp reaches the cap", elapsed: 9 * time.Minute, ramp: 9, cap: 90, expected: 90},
		{name: "capped beyond the ramp", elapsed: 2 * time.Hour, ramp: 9, cap: 90, expected: 90},
		{name: "custom calibration", elapsed: 1 * time.Minute, ramp: 2, cap: 80, expected: 40},
		{name: "clock skew never goes negative", elapsed: -time.Minute, ramp: 9, cap: 90, expected: 0},
		{name: "zero ramp disables the heuristic", elapsed: time.Minute, ramp: 0, cap: 90, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progressEstimate(base, base.Add(tt.elapsed), tt.ramp, tt.cap)
			assert.Equal(t, tt.expected, got)
		})
	}
}
