package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDiscScores(t *testing.T) {
	tests := []struct {
		name     string
		answers  []CategoryAnswer
		expected DiscScores
	}{
		{
			name:     "empty input returns all zeros",
			answers:  nil,
			expected: DiscScores{D: 0, I: 0, S: 0, C: 0},
		},
		{
			name: "two axes split by raw totals",
			answers: []CategoryAnswer{
				{Category: "d", Value: 5},
				{Category: "d", Value: 3},
				{Category: "i", Value: 2},
			},
			expected: DiscScores{D: 80, I: 20, S: 0, C: 0},
		},
		{
			name: "single axis takes the full hundred",
			answers: []CategoryAnswer{
				{Category: "s", Value: 4},
				{Category: "s", Value: 1},
			},
			expected: DiscScores{D: 0, I: 0, S: 100, C: 0},
		},
		{
			name: "long category names map to canonical axes",
			answers: []CategoryAnswer{
				{Category: "Dominance", Value: 3},
				{Category: "influence", Value: 3},
				{Category: "Steadiness", Value: 3},
				{Category: "Conscientiousness", Value: 3},
			},
			expected: DiscScores{D: 25, I: 25, S: 25, C: 25},
		},
		{
			name: "compliance synonym counts toward c",
			answers: []CategoryAnswer{
				{Category: "compliance", Value: 2},
				{Category: "C", Value: 2},
			},
			expected: DiscScores{D: 0, I: 0, S: 0, C: 100},
		},
		{
			name: "unknown categories are ignored",
			answers: []CategoryAnswer{
				{Category: "d", Value: 4},
				{Category: "awareness", Value: 5},
			},
			expected: DiscScores{D: 100, I: 0, S: 0, C: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeDiscScores(tt.answers))
		})
	}
}

func TestComputeDiscScores_ValuesBounded(t *testing.T) {
	answers := []CategoryAnswer{
		{Category: "d", Value: 1},
		{Category: "i", Value: 1},
		{Category: "s", Value: 1},
		{Category: "c", Value: 2},
	}

	scores := ComputeDiscScores(answers)

	for _, v := range []int{scores.D, scores.I, scores.S, scores.C} {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}

	// Independent rounding: the sum lands near 100 but not necessarily
	// on it. 1/5 -> 20, 1/5 -> 20, 1/5 -> 20, 2/5 -> 40.
	assert.InDelta(t, 100, scores.D+scores.I+scores.S+scores.C, 2)
}

func TestComputeEqScore(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected float64
	}{
		{
			name:     "empty input returns zero",
			values:   nil,
			expected: 0,
		},
		{
			name:     "mean of two values",
			values:   []int{80, 90},
			expected: 85.0,
		},
		{
			name:     "rounded to one decimal place",
			values:   []int{1, 2, 2},
			expected: 1.7,
		},
		{
			name:     "single value",
			values:   []int{4},
			expected: 4.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeEqScore(tt.values))
		})
	}
}
